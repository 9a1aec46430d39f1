package booking

import (
	"context"
	"time"
)

// Clock abstracts wall time for the flow so the notice auto-clear and the
// payment processing pause become scheduled, cancellable timers that tests
// can drive with virtual time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	Sleep(ctx context.Context, d time.Duration) error
}

// Timer is a scheduled callback that can be cancelled before it fires.
type Timer interface {
	Stop() bool
}

type realClock struct{}

// NewClock returns the wall-time clock used outside of tests.
func NewClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
