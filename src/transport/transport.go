// Package transport carries mDNS messages over UDP multicast, per
// RFC 6762 §3. It owns the per-family sockets, multicast group
// membership, and the merged incoming stream; everything above this
// package deals only in wire.Message values.
package transport

import (
	"context"
	"net"

	"github.com/jmalloc/mdnssd/src/wire"
)

// Received pairs a decoded message with the address it arrived from.
type Received struct {
	Message wire.Message
	Source  net.Addr
}

// Config selects which address families to use and, optionally,
// restricts operation to a single network interface.
type Config struct {
	// UseIPv4 enables the IPv4 multicast socket (224.0.0.251:5353).
	UseIPv4 bool
	// UseIPv6 enables the IPv6 multicast socket ([ff02::fb]:5353).
	UseIPv6 bool
	// InterfaceName restricts multicast group membership to a single
	// named interface. If empty, every up, multicast-capable interface
	// is joined.
	InterfaceName string
}

// Transport is the contract the browser and advertiser packages depend
// on. A mock implementation backs their unit tests; Multicast is the
// production implementation.
type Transport interface {
	// Start binds a socket per enabled family, joins the mDNS multicast
	// groups, and begins receiving. It must be called before Send,
	// SendTo, or Incoming are used.
	Start(ctx context.Context) error

	// Stop leaves the multicast groups, closes the sockets, and closes
	// the channel returned by Incoming.
	Stop() error

	// Send encodes m once and transmits it to every enabled multicast
	// group.
	Send(ctx context.Context, m wire.Message) error

	// SendTo encodes m and transmits it unicast to addr, using the
	// socket of matching family.
	SendTo(ctx context.Context, m wire.Message, addr net.Addr) error

	// Incoming returns the channel of received messages. Malformed
	// datagrams are decoded-and-dropped before ever reaching this
	// channel. The channel is closed when Stop completes.
	Incoming() <-chan Received
}
