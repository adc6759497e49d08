package transport

import "sync"

// bufferSize accommodates the largest mDNS message this library expects
// (wire.MaxMDNSMessageSize) with headroom for IP/UDP framing handled
// below this package.
const bufferSize = 65536

var buffers = sync.Pool{
	New: func() interface{} {
		return make([]byte, bufferSize)
	},
}

func getBuffer() []byte {
	return buffers.Get().([]byte)
}

func putBuffer(buf []byte) {
	if cap(buf) >= bufferSize {
		buffers.Put(buf[:bufferSize])
	}
}
