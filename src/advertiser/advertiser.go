// Package advertiser implements ServiceAdvertiser: registering DNS-SD
// service instances for advertisement over mDNS, answering incoming
// queries about them, re-announcing them on a schedule, and sending
// goodbyes when they are unregistered or the advertiser stops.
package advertiser

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/dogmatiq/dodeca/logging"

	"github.com/jmalloc/mdnssd/src/service"
	"github.com/jmalloc/mdnssd/src/transport"
	"github.com/jmalloc/mdnssd/src/wire"
)

// command is a unit of work executed within the Advertiser's single
// actor goroutine, giving every public method a linearized view of
// a.services without an explicit lock.
type command interface {
	execute(ctx context.Context, a *Advertiser) error
}

// commandRequest pairs a command with the channel its result is
// delivered on, so that execute can block its caller until the actor
// goroutine has actually run the command rather than merely accepted
// it for later execution.
type commandRequest struct {
	cmd  command
	done chan error
}

// Advertiser registers DNS-SD service instances and keeps them visible
// on the local network: it answers queries about them, re-announces
// them periodically, and withdraws them with a goodbye on unregister
// or stop.
type Advertiser struct {
	logger               logging.Logger
	ttl                  time.Duration
	announcementInterval time.Duration
	announcementCount    int
	transportConfig      transport.Config
	transport            transport.Transport

	started   bool
	services  map[string]service.Service
	localIPv4 []wire.IPv4
	localIPv6 []wire.IPv6
	localHost string
	events    chan Event

	commands chan commandRequest
	done     chan struct{}
	cancel   context.CancelFunc

	// wg tracks every goroutine that can call emit/emitError (run,
	// receiveLoop, and each schedule()-spawned announcement), so Stop can wait
	// for all of them to finish before closing events — otherwise a
	// goroutine woken by cancellation after close(a.events) would send
	// on a closed channel.
	wg sync.WaitGroup
}

// New constructs an Advertiser. It is not started until Start is
// called.
func New(opts ...Option) (*Advertiser, error) {
	a := &Advertiser{
		ttl:                  DefaultTTL,
		announcementInterval: DefaultAnnouncementInterval,
		announcementCount:    DefaultAnnouncementCount,
		services:             map[string]service.Service{},
		events:               make(chan Event, 16),
		commands:             make(chan commandRequest),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.transport == nil {
		a.transport = &transport.Multicast{Config: a.transportConfig}
	}

	return a, nil
}

// Events returns the channel of registration/unregistration events. It
// is closed when Stop completes.
func (a *Advertiser) Events() <-chan Event {
	return a.events
}

// Start caches the host's local addresses and name, begins listening
// for queries, and begins the periodic re-announcement task. It is
// idempotent.
func (a *Advertiser) Start(ctx context.Context) error {
	if a.started {
		return nil
	}

	v4, v6, err := localAddresses(a.transportConfig)
	if err != nil {
		return err
	}
	a.localIPv4 = v4
	a.localIPv6 = v6

	host, err := os.Hostname()
	if err != nil {
		return err
	}
	a.localHost = host

	if err := a.transport.Start(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	a.events = make(chan Event, 16)

	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.receiveLoop(runCtx)
	}()
	go func() {
		defer a.wg.Done()
		a.run(runCtx)
	}()

	a.started = true
	return nil
}

// Stop sends a best-effort goodbye for every registered service, then
// cancels the receive and periodic-announcement tasks, stops the
// transport, and closes the event channel. It is idempotent.
func (a *Advertiser) Stop() error {
	if !a.started {
		return nil
	}

	if err := a.execute(context.Background(), &goodbyeAllCommand{}); err != nil {
		logging.Log(a.logger, "unable to send goodbye for all services: %s", err)
	}

	a.cancel()
	a.wg.Wait()

	err := a.transport.Stop()
	close(a.events)

	a.started = false
	return err
}

// Register adds svc to the set of advertised services: it requires
// svc.Port to be set, fills in svc.Host and the local address lists if
// they are empty, performs the initial announcement, and emits
// Registered.
func (a *Advertiser) Register(ctx context.Context, svc service.Service) error {
	return a.execute(ctx, &registerCommand{svc: svc})
}

// Unregister removes svc (identified by its FullName) from the set of
// advertised services, sends a goodbye, and emits Unregistered. It is
// a no-op if svc is not currently registered.
func (a *Advertiser) Unregister(ctx context.Context, svc service.Service) error {
	return a.execute(ctx, &unregisterCommand{svc: svc})
}

// Update replaces the registered entry for svc's FullName with svc,
// re-announces it, and emits Updated. It fails with ErrNotRegistered if
// svc's FullName is not already registered.
func (a *Advertiser) Update(ctx context.Context, svc service.Service) error {
	return a.execute(ctx, &updateCommand{svc: svc})
}

// execute submits c to the actor goroutine and blocks until it has
// actually run, returning its result. This gives Register, Unregister,
// and Update a synchronous error return instead of merely confirming
// that the command was accepted for later execution.
func (a *Advertiser) execute(ctx context.Context, c command) error {
	if !a.started {
		return ErrNotStarted
	}

	req := commandRequest{cmd: c, done: make(chan error, 1)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return errors.New("advertiser: stopped")
	case a.commands <- req:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-req.done:
		return err
	}
}

func (a *Advertiser) run(ctx context.Context) {
	defer close(a.done)

	ticker := time.NewTicker(a.announcementInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-a.commands:
			req.done <- req.cmd.execute(ctx, a)

		case <-ticker.C:
			a.reannounceAll(ctx)
		}
	}
}

func (a *Advertiser) receiveLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case r, ok := <-a.transport.Incoming():
			if !ok {
				return
			}

			if err := a.execute(ctx, &handleQueryCommand{msg: r.Message}); err != nil {
				a.emitError(err)
			}
		}
	}
}

func (a *Advertiser) reannounceAll(ctx context.Context) {
	for _, svc := range a.services {
		if err := a.transport.Send(ctx, a.bundle(svc)); err != nil {
			logging.Log(a.logger, "unable to re-announce %s: %s", svc.FullName(), err)
		}
	}
}

func (a *Advertiser) emit(e Event) {
	select {
	case a.events <- e:
	default:
		logging.DebugString(a.logger, "dropping event, event channel is full")
	}
}

func (a *Advertiser) emitError(err error) {
	a.emit(Event{Kind: Error, Err: err})
}
