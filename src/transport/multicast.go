package transport

import (
	"context"
	"errors"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jmalloc/twelf/src/twelf"
	"github.com/jmalloc/mdnssd/src/wire"
)

var errNoInterfacesJoined = errors.New("transport: unable to join the multicast group on any interface")

// family is the subset of conn4/conn6's behavior Multicast needs,
// letting Start/Send/receive treat both sockets uniformly.
type family interface {
	listen(ifaces []net.Interface) error
	readFrom() ([]byte, net.Addr, error)
	writeTo(data []byte, dest net.Addr) error
	group() net.Addr
	close() error
}

// Multicast is the production Transport: one UDP socket per enabled
// address family, each bound to the mDNS port and joined to its
// multicast group on every matching interface (or just InterfaceName,
// if set).
//
// Separate sockets per family are used because join/bind semantics
// differ: IPv4 multicast binds the wildcard 0.0.0.0:5353 and joins per
// interface, IPv6 binds [::]:5353 and joins per interface the same way,
// but the two cannot share one socket. Datagrams read from either
// socket are merged onto the single channel Incoming returns.
type Multicast struct {
	Config Config
	Logger twelf.Logger

	mu       sync.Mutex
	families []family
	incoming chan Received
	cancel   context.CancelFunc
	group    *errgroup.Group
}

// Start implements Transport.
func (t *Multicast) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Logger == nil {
		t.Logger = twelf.DefaultLogger
	}

	ifaces, err := multicastInterfaces(t.Config.InterfaceName)
	if err != nil {
		return err
	}

	if !t.Config.UseIPv4 && !t.Config.UseIPv6 {
		return errors.New("transport: at least one of UseIPv4 or UseIPv6 must be enabled")
	}

	if t.Config.UseIPv4 {
		c := &conn4{logger: t.Logger}
		if err := c.listen(ifaces); err != nil {
			return err
		}
		t.families = append(t.families, c)
	}

	if t.Config.UseIPv6 {
		c := &conn6{logger: t.Logger}
		if err := c.listen(ifaces); err != nil {
			t.closeFamilies()
			return err
		}
		t.families = append(t.families, c)
	}

	t.incoming = make(chan Received)

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	g, gctx := errgroup.WithContext(runCtx)
	t.group = g

	for _, f := range t.families {
		f := f
		g.Go(func() error {
			t.receiveLoop(gctx, f)
			return nil
		})
	}

	return nil
}

// receiveLoop decodes and forwards datagrams from f until ctx is
// cancelled. Read errors terminate the loop (the socket is being
// closed); decode errors are logged and the datagram is dropped —
// malformed traffic is routine on an open multicast segment.
func (t *Multicast) receiveLoop(ctx context.Context, f family) {
	for {
		data, src, err := f.readFrom()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logReadError(t.Logger, nil, err)
				return
			}
		}

		m, err := wire.Decode(data)
		putBuffer(data)
		if err != nil {
			logDecodeError(t.Logger, src, err)
			continue
		}

		select {
		case t.incoming <- Received{Message: m, Source: src}:
		case <-ctx.Done():
			return
		}
	}
}

// Stop implements Transport.
func (t *Multicast) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	err := t.closeFamilies()

	if t.group != nil {
		t.group.Wait()
	}
	if t.incoming != nil {
		close(t.incoming)
	}

	return err
}

func (t *Multicast) closeFamilies() error {
	var first error
	for _, f := range t.families {
		if err := f.close(); err != nil && first == nil {
			first = err
		}
	}
	t.families = nil
	return first
}

// Send implements Transport.
func (t *Multicast) Send(ctx context.Context, m wire.Message) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	t.mu.Lock()
	families := t.families
	t.mu.Unlock()

	var first error
	for _, f := range families {
		if err := f.writeTo(data, f.group()); err != nil {
			logWriteError(t.Logger, f.group(), err)
			if first == nil {
				first = err
			}
		}
	}

	return first
}

// SendTo implements Transport.
func (t *Multicast) SendTo(ctx context.Context, m wire.Message, addr net.Addr) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	udp, ok := addr.(*net.UDPAddr)
	if !ok {
		return errors.New("transport: SendTo requires a *net.UDPAddr")
	}

	t.mu.Lock()
	families := t.families
	t.mu.Unlock()

	isV4 := udp.IP.To4() != nil

	for _, f := range families {
		switch f.(type) {
		case *conn4:
			if !isV4 {
				continue
			}
		case *conn6:
			if isV4 {
				continue
			}
		}

		if err := f.writeTo(data, udp); err != nil {
			logWriteError(t.Logger, udp, err)
			return err
		}
		return nil
	}

	return errors.New("transport: no socket of matching family is active")
}

// Incoming implements Transport.
func (t *Multicast) Incoming() <-chan Received {
	return t.incoming
}
