package advertiser

import (
	"context"
	"time"
)

// sleep sleeps for d, or until ctx is canceled, whichever comes first.
// It returns nil if the duration elapsed and ctx's error otherwise.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
