// Package browser implements ServiceBrowser: discovery of DNS-SD service
// instances over mDNS by sending PTR queries and demultiplexing the
// responses into a map of known services.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/transport"
	"github.com/jmalloc/mdnssd/src/wire"
)

// command is a unit of work executed within the Browser's single
// actor goroutine, giving every public method a linearized view of
// b.services and b.browsingTypes without an explicit lock.
type command interface {
	execute(ctx context.Context, b *Browser) error
}

// commandRequest pairs a command with the channel its result is
// delivered on, so that execute can block its caller until the actor
// goroutine has actually run the command rather than merely accepted
// it for later execution.
type commandRequest struct {
	cmd  command
	done chan error
}

// Browser discovers DNS-SD service instances by querying for PTR
// records of one or more service types and tracking the services those
// PTR records, and the SRV/TXT/address records that follow them,
// describe.
type Browser struct {
	logger          logging.Logger
	queryInterval   time.Duration
	autoResolve     bool
	transportConfig transport.Config
	transport       transport.Transport

	started       bool
	browsingTypes map[string]struct{}
	services      map[string]service.Service
	events        chan Event

	commands chan commandRequest
	done     chan struct{}
	cancel   context.CancelFunc

	// wg tracks every goroutine that can call emit/emitError (run,
	// receiveLoop, and each spawnResolve), so Stop can wait for all of
	// them to finish before closing events — otherwise a goroutine woken
	// by cancellation after close(b.events) would send on a closed
	// channel.
	wg sync.WaitGroup
}

// New constructs a Browser. It is not started until Start is called.
func New(opts ...Option) (*Browser, error) {
	b := &Browser{
		queryInterval: DefaultQueryInterval,
		browsingTypes: map[string]struct{}{},
		services:      map[string]service.Service{},
		events:        make(chan Event, 16),
		commands:      make(chan commandRequest),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.transport == nil {
		b.transport = &transport.Multicast{Config: b.transportConfig}
	}

	return b, nil
}

// Events returns the channel of discovery events. It is closed when
// Stop completes.
func (b *Browser) Events() <-chan Event {
	return b.events
}

// Start begins browsing. It is idempotent: calling Start on an
// already-started Browser is a no-op.
func (b *Browser) Start(ctx context.Context) error {
	if b.started {
		return nil
	}

	if err := b.transport.Start(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.done = make(chan struct{})
	b.events = make(chan Event, 16)

	b.wg.Add(2)
	go func() {
		defer b.wg.Done()
		b.receiveLoop(runCtx)
	}()
	go func() {
		defer b.wg.Done()
		b.run(runCtx)
	}()

	b.started = true
	return nil
}

// Stop ends browsing: it cancels the receive and periodic-query tasks,
// stops the transport, and closes the event channel. It is idempotent.
func (b *Browser) Stop() error {
	if !b.started {
		return nil
	}

	b.cancel()
	b.wg.Wait()

	err := b.transport.Stop()
	close(b.events)

	b.started = false
	return err
}

// Browse adds typ to the set of service types being browsed, sends an
// immediate PTR query for it, and ensures the periodic-query task keeps
// re-querying it. It fails without enqueueing anything if typ does not
// parse as a DNS name.
func (b *Browser) Browse(ctx context.Context, typ string) error {
	if _, err := wire.ParseName(typ); err != nil {
		return fmt.Errorf("browser: invalid service type %q: %w", typ, err)
	}
	return b.execute(ctx, &browseCommand{typ: typ})
}

// StopBrowsing removes typ from the browsing set and drops every known
// service whose FullType equals typ, emitting Removed for each.
func (b *Browser) StopBrowsing(ctx context.Context, typ string) error {
	return b.execute(ctx, &stopBrowsingCommand{typ: typ})
}

// Resolve sends a unicast-requested query for SRV and TXT records on
// svc's full name and returns the service's current state from the map
// (the response itself arrives back through the normal receive loop).
// It fails without enqueueing anything if svc's name, type, and domain
// do not qualify into a name the wire package can encode.
func (b *Browser) Resolve(ctx context.Context, svc service.Service) (service.Service, error) {
	if _, err := instanceName(svc); err != nil {
		return service.Service{}, fmt.Errorf("browser: invalid service: %w", err)
	}

	var result service.Service
	err := b.execute(ctx, &resolveCommand{svc: svc, result: &result})
	return result, err
}

// execute submits c to the actor goroutine and blocks until it has
// actually run, returning its result. This gives Browse, StopBrowsing,
// and Resolve a synchronous error return instead of merely confirming
// that the command was accepted for later execution — Resolve in
// particular depends on this, since it reads the result the command
// writes once execute returns.
func (b *Browser) execute(ctx context.Context, c command) error {
	if !b.started {
		return errors.New("browser: not started")
	}

	req := commandRequest{cmd: c, done: make(chan error, 1)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return errors.New("browser: stopped")
	case b.commands <- req:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-req.done:
		return err
	}
}

func (b *Browser) run(ctx context.Context) {
	defer close(b.done)

	ticker := time.NewTicker(b.queryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-b.commands:
			req.done <- req.cmd.execute(ctx, b)

		case <-ticker.C:
			b.sendBrowseQueries(ctx)
		}
	}
}

func (b *Browser) receiveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case r, ok := <-b.transport.Incoming():
			if !ok {
				return
			}

			if err := b.execute(ctx, &handleMessageCommand{msg: r.Message}); err != nil {
				b.emitError(err)
			}
		}
	}
}

func (b *Browser) sendBrowseQueries(ctx context.Context) {
	for typ := range b.browsingTypes {
		q := wire.Question{
			Name:  wire.MustParseName(typ),
			Type:  wire.TypePTR,
			Class: wire.ClassIN,
		}
		if err := b.transport.Send(ctx, wire.NewQuery(q)); err != nil {
			logging.Log(b.logger, "unable to send periodic PTR query for %s: %s", typ, err)
		}
	}
}

func (b *Browser) spawnResolve(svc service.Service) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		_, _ = b.Resolve(context.Background(), svc)
	}()
}

func (b *Browser) emit(e Event) {
	select {
	case b.events <- e:
	default:
		logging.DebugString(b.logger, "dropping event, event channel is full")
	}
}

func (b *Browser) emitError(err error) {
	b.emit(Event{Kind: Error, Err: err})
}
