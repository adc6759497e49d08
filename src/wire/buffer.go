package wire

import "encoding/binary"

// writeBuffer is a growable, append-oriented byte buffer used to encode a
// single DNS message. It tracks, for each name suffix it has written, the
// byte offset at which that suffix began, so that later names can replace a
// repeated suffix with a 2-octet compression pointer instead of writing the
// labels again.
//
// The compression table lives only for the lifetime of one Encode call; it
// is never shared between messages.
type writeBuffer struct {
	buf      []byte
	suffixes map[string]int
}

func newWriteBuffer() *writeBuffer {
	return &writeBuffer{
		buf:      make([]byte, 0, 256),
		suffixes: map[string]int{},
	}
}

// len returns the number of octets written so far.
func (b *writeBuffer) len() int {
	return len(b.buf)
}

// bytes returns the buffer's contents. The returned slice is only valid
// until the next write.
func (b *writeBuffer) bytes() []byte {
	return b.buf
}

// reset empties the buffer, reusing its underlying capacity, and clears the
// compression table.
func (b *writeBuffer) reset() {
	b.buf = b.buf[:0]
	for k := range b.suffixes {
		delete(b.suffixes, k)
	}
}

func (b *writeBuffer) writeUint8(v uint8) {
	b.buf = append(b.buf, v)
}

func (b *writeBuffer) writeUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *writeBuffer) writeUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *writeBuffer) writeBytes(p []byte) {
	b.buf = append(b.buf, p...)
}

// patchUint16 overwrites the 2 octets at offset with v. Used to back-patch
// an rdlength field once the rdata that follows it has been written.
func (b *writeBuffer) patchUint16(offset int, v uint16) {
	binary.BigEndian.PutUint16(b.buf[offset:offset+2], v)
}

// writeName writes n using RFC 1035 §4.1.4 name compression.
//
// For each suffix of n's remaining labels, starting with the full tail and
// shrinking by one label each iteration, it consults the compression table
// for a previous occurrence of that exact suffix (compared case-insensitive
// over ASCII letters). On a hit, it emits a 2-octet pointer to the
// previously recorded offset and returns. On a miss, it records the current
// offset for that suffix — provided the offset is within the addressable
// 14-bit range — then writes the head label as a length-prefixed octet
// string and continues with the remaining tail. If no suffix ever matches,
// a single zero-length terminator is written.
//
// Checking the full suffix first (rather than only ever matching whole
// names) is what lets every record in a typical DNS-SD response reuse the
// "._tcp.local." tail of the record before it, which is where the bulk of
// the compression savings come from.
func (b *writeBuffer) writeName(n Name) error {
	labels := n.labels

	for i := 0; i < len(labels); i++ {
		key := foldKey(labels[i:])

		if offset, ok := b.suffixes[key]; ok {
			b.writeUint16(0xC000 | uint16(offset))
			return nil
		}

		if b.len() <= 0x3FFF {
			b.suffixes[key] = b.len()
		}

		label := labels[i]
		b.writeUint8(uint8(len(label)))
		b.writeBytes(label)
	}

	b.writeUint8(0)
	return nil
}

// writeNameRaw writes n as a sequence of length-prefixed labels followed by
// a zero terminator, without consulting or updating the compression table.
//
// RFC 2782 and RFC 6762 §18.14 require that an SRV record's target name not
// be compressed on output; this is also used for any other name that must
// not be turned into (or used as the source of) a compression pointer.
func (b *writeBuffer) writeNameRaw(n Name) {
	for _, label := range n.labels {
		b.writeUint8(uint8(len(label)))
		b.writeBytes(label)
	}
	b.writeUint8(0)
}

// foldKey joins labels with "." after folding ASCII letters to lowercase,
// producing a case-insensitive key suitable for the compression table.
func foldKey(labels [][]byte) string {
	n := 0
	for i, l := range labels {
		if i > 0 {
			n++
		}
		n += len(l)
	}

	out := make([]byte, 0, n)
	for i, l := range labels {
		if i > 0 {
			out = append(out, '.')
		}
		for _, c := range l {
			out = append(out, foldByte(c))
		}
	}

	return string(out)
}

// foldByte lowercases ASCII letters only; all other bytes pass through
// unchanged, matching DNS's ASCII-only case-insensitivity rule.
func foldByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// beUint16 reads a big-endian uint16 from the start of p.
func beUint16(p []byte) uint16 {
	return binary.BigEndian.Uint16(p)
}

// beUint32 reads a big-endian uint32 from the start of p.
func beUint32(p []byte) uint32 {
	return binary.BigEndian.Uint32(p)
}
