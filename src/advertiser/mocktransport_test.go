package advertiser_test

import (
	"context"
	"net"

	"github.com/jmalloc/mdnssd/src/transport"
	"github.com/jmalloc/mdnssd/src/wire"
)

// mockTransport is a transport.Transport that never touches the
// network: Send captures outgoing messages and feed() injects incoming
// ones, letting tests drive an Advertiser through an exact sequence of
// protocol messages without real sockets or wall-clock network I/O.
type mockTransport struct {
	incoming chan transport.Received
	sent     chan wire.Message
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		incoming: make(chan transport.Received, 16),
		sent:     make(chan wire.Message, 16),
	}
}

func (m *mockTransport) Start(ctx context.Context) error { return nil }

func (m *mockTransport) Stop() error {
	close(m.incoming)
	return nil
}

func (m *mockTransport) Send(ctx context.Context, msg wire.Message) error {
	m.sent <- msg
	return nil
}

func (m *mockTransport) SendTo(ctx context.Context, msg wire.Message, addr net.Addr) error {
	m.sent <- msg
	return nil
}

func (m *mockTransport) Incoming() <-chan transport.Received {
	return m.incoming
}

func (m *mockTransport) feed(msg wire.Message) {
	m.incoming <- transport.Received{
		Message: msg,
		Source:  &net.UDPAddr{IP: net.IPv4(192, 168, 1, 50), Port: wire.Port},
	}
}
