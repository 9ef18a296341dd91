package service

import (
	"context"
	"time"
)

// wait blocks for d or until ctx is done
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Simulated returns a latency hook for offline collaborators
func Simulated(d time.Duration) func(context.Context) error {
	return func(ctx context.Context) error { return wait(ctx, d) }
}
