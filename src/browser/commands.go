package browser

import (
	"context"

	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/wire"
)

// browseCommand implements Browse.
type browseCommand struct {
	typ string
}

func (c *browseCommand) execute(ctx context.Context, b *Browser) error {
	b.browsingTypes[c.typ] = struct{}{}

	q := wire.Question{
		Name:  wire.MustParseName(c.typ),
		Type:  wire.TypePTR,
		Class: wire.ClassIN,
	}
	return b.transport.Send(ctx, wire.NewQuery(q))
}

// stopBrowsingCommand implements StopBrowsing.
type stopBrowsingCommand struct {
	typ string
}

func (c *stopBrowsingCommand) execute(ctx context.Context, b *Browser) error {
	delete(b.browsingTypes, c.typ)

	for fullName, svc := range b.services {
		if svc.FullType() != c.typ {
			continue
		}
		delete(b.services, fullName)
		b.emit(Event{Kind: Removed, Service: svc})
	}

	return nil
}

// resolveCommand implements Resolve.
type resolveCommand struct {
	svc    service.Service
	result *service.Service
}

func (c *resolveCommand) execute(ctx context.Context, b *Browser) error {
	if current, ok := b.services[c.svc.FullName()]; ok {
		*c.result = current
	} else {
		*c.result = c.svc
	}

	// Resolve already rejected an unparseable svc before this command
	// was enqueued, so the error here can only be that invariant having
	// been violated.
	name := mustInstanceName(c.svc)

	queries := wire.NewMultiQuery(
		wire.Question{Name: name, Type: wire.TypeSRV, Class: wire.ClassIN, Unicast: true},
		wire.Question{Name: name, Type: wire.TypeTXT, Class: wire.ClassIN, Unicast: true},
	)

	return b.transport.Send(ctx, queries)
}

// instanceName builds the wire-format name identifying svc: the
// instance name as a single opaque label, qualified by the parsed
// service type and domain. RFC 6763 §4.1.1 permits dots, spaces, and
// arbitrary UTF-8 within an instance name, so it is never itself split
// into dot-separated labels the way svc.FullType and svc.Host are.
func instanceName(svc service.Service) (wire.Name, error) {
	instance, err := wire.NewName(svc.Name)
	if err != nil {
		return wire.Name{}, err
	}

	typ, err := wire.ParseName(svc.FullType())
	if err != nil {
		return wire.Name{}, err
	}

	return instance.Qualify(typ)
}

// mustInstanceName is instanceName for call sites operating on a svc
// that has already passed the same check in Resolve; an error here
// signals that invariant was violated, not a condition this package's
// callers are expected to handle.
func mustInstanceName(svc service.Service) wire.Name {
	n, err := instanceName(svc)
	if err != nil {
		panic(err)
	}
	return n
}

// handleMessageCommand demultiplexes one received message into the
// service map.
type handleMessageCommand struct {
	msg wire.Message
}

func (c *handleMessageCommand) execute(ctx context.Context, b *Browser) error {
	b.demux(c.msg)
	return nil
}
