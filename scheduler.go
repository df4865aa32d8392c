package b64pdf

import (
	"context"
	"time"
)

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether it did.
	Stop() bool
}

// Scheduler runs deferred work. It exists so revocation timing and simulated
// latency can be driven by a fake clock in tests.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemScheduler schedules with the runtime timers.
type SystemScheduler struct{}

// Compile-time interface check.
var _ Scheduler = SystemScheduler{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Sleep blocks for d or until ctx is done.
func (SystemScheduler) Sleep(ctx context.Context, d time.Duration) error {
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
