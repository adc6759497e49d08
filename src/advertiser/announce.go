package advertiser

import (
	"context"
	"time"
)

// announceCommand sends one bundle of a service's initial-announcement
// sequence and, unless this was the last of announcementCount sends,
// schedules the next one after a doubled delay — 1s, 2s, 4s, ... before
// sends 2, 3, 4, ....
type announceCommand struct {
	fullName string
	attempt  int // 0-based index of this send
}

func (c *announceCommand) execute(ctx context.Context, a *Advertiser) error {
	svc, ok := a.services[c.fullName]
	if !ok {
		// Unregistered (or replaced by a later Update's own sequence)
		// before this scheduled send arrived.
		return nil
	}

	if err := a.transport.Send(ctx, a.bundle(svc)); err != nil {
		return err
	}

	if c.attempt+1 >= a.announcementCount {
		return nil
	}

	delay := time.Duration(1<<uint(c.attempt)) * time.Second
	a.schedule(ctx, delay, &announceCommand{fullName: c.fullName, attempt: c.attempt + 1})
	return nil
}

// beginAnnouncing sends the first bundle of svc's initial-announcement
// sequence immediately and schedules the rest. It runs synchronously
// within the command that calls it (register/update), since it is
// itself the first send of that sequence, not a queued command.
func (a *Advertiser) beginAnnouncing(ctx context.Context, fullName string) {
	cmd := &announceCommand{fullName: fullName, attempt: 0}
	if err := cmd.execute(ctx, a); err != nil {
		a.emitError(err)
	}
}

// schedule runs c against the actor after d elapses, or not at all if
// ctx is canceled first. It is tracked by a.wg so Stop can wait for it
// to finish (and stop emitting) before closing the event channel.
func (a *Advertiser) schedule(ctx context.Context, d time.Duration, c command) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := sleep(ctx, d); err == nil {
			if err := a.execute(ctx, c); err != nil {
				a.emitError(err)
			}
		}
	}()
}
