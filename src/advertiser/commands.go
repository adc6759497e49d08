package advertiser

import (
	"context"
	"fmt"
	"time"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/wire"
)

// registerCommand implements Register.
type registerCommand struct {
	svc service.Service
}

func (c *registerCommand) execute(ctx context.Context, a *Advertiser) error {
	svc := c.svc
	if svc.Domain == "" {
		svc.Domain = service.DefaultDomain
	}
	if svc.Host == "" {
		svc.Host = a.localHost + ".local"
	}
	if err := validateName(svc); err != nil {
		return err
	}
	if svc.Port == 0 {
		return fmt.Errorf("%w: %s", ErrPortRequired, svc.FullName())
	}

	if len(svc.IPv4) == 0 && len(svc.IPv6) == 0 {
		svc.IPv4 = a.localIPv4
		svc.IPv6 = a.localIPv6
	}
	if svc.TTL == 0 {
		svc.TTL = a.ttl
	}
	svc.LastSeen = time.Now()

	fullName := svc.FullName()
	a.services[fullName] = svc
	a.beginAnnouncing(ctx, fullName)
	a.emit(Event{Kind: Registered, Service: svc})

	return nil
}

// unregisterCommand implements Unregister.
type unregisterCommand struct {
	svc service.Service
}

func (c *unregisterCommand) execute(ctx context.Context, a *Advertiser) error {
	svc := c.svc
	if svc.Domain == "" {
		svc.Domain = service.DefaultDomain
	}
	fullName := svc.FullName()

	svc, ok := a.services[fullName]
	if !ok {
		return nil
	}

	delete(a.services, fullName)

	err := a.transport.Send(ctx, wire.NewGoodbye(a.answerRecords(svc)...))
	a.emit(Event{Kind: Unregistered, Service: svc})

	return err
}

// updateCommand implements Update.
type updateCommand struct {
	svc service.Service
}

func (c *updateCommand) execute(ctx context.Context, a *Advertiser) error {
	svc := c.svc
	if svc.Domain == "" {
		svc.Domain = service.DefaultDomain
	}
	if svc.Host == "" {
		svc.Host = a.localHost + ".local"
	}
	if err := validateName(svc); err != nil {
		return err
	}
	if svc.Port == 0 {
		return fmt.Errorf("%w: %s", ErrPortRequired, svc.FullName())
	}
	fullName := svc.FullName()

	if _, ok := a.services[fullName]; !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, fullName)
	}

	if len(svc.IPv4) == 0 && len(svc.IPv6) == 0 {
		svc.IPv4 = a.localIPv4
		svc.IPv6 = a.localIPv6
	}
	if svc.TTL == 0 {
		svc.TTL = a.ttl
	}
	svc.LastSeen = time.Now()

	a.services[fullName] = svc
	a.beginAnnouncing(ctx, fullName)
	a.emit(Event{Kind: Updated, Service: svc})

	return nil
}

// goodbyeAllCommand sends a best-effort goodbye for every registered
// service and clears the registry, logging (rather than aborting on) a
// per-service send failure so one bad send doesn't leave the rest of
// the services without a goodbye. Stop waits for it to run to
// completion via execute's synchronous reply before stopping the
// transport. Clearing the registry here, rather than leaving it for
// the caller to Unregister each service individually, keeps a
// withdrawn service from being silently re-announced by the periodic
// refresh ticker if the same Advertiser is Started again.
type goodbyeAllCommand struct{}

func (c *goodbyeAllCommand) execute(ctx context.Context, a *Advertiser) error {
	for fullName, svc := range a.services {
		if err := a.transport.Send(ctx, wire.NewGoodbye(a.answerRecords(svc)...)); err != nil {
			logging.Log(a.logger, "unable to send goodbye for %s: %s", svc.FullName(), err)
		}
		delete(a.services, fullName)
	}

	return nil
}

// handleQueryCommand is defined in respond.go.

// validateName reports whether svc's name, type, and domain qualify
// into names the wire package can encode, without ever parsing the
// instance name itself as a sequence of dot-separated labels (RFC 6763
// §4.1.1 permits dots, spaces, and arbitrary UTF-8 in instance names).
// Records for a svc that passes this check can be built with
// mustInstanceName instead of propagating an error from every call.
func validateName(svc service.Service) error {
	if _, err := instanceName(svc); err != nil {
		return fmt.Errorf("%w: %s.%s: %s", ErrInvalidName, svc.Name, svc.FullType(), err)
	}
	if svc.Host != "" {
		if _, err := wire.ParseName(svc.Host + "."); err != nil {
			return fmt.Errorf("%w: host %s: %s", ErrInvalidName, svc.Host, err)
		}
	}
	return nil
}

// answerRecords returns the full set of records a goodbye for svc
// should carry: its PTR, SRV, TXT, and address records, all of which
// NewGoodbye forces to TTL zero.
func (a *Advertiser) answerRecords(svc service.Service) []wire.ResourceRecord {
	records := []wire.ResourceRecord{a.ptrRecord(svc), a.srvRecord(svc), a.txtRecord(svc)}
	return append(records, a.addressRecords(svc)...)
}
