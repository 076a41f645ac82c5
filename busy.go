package xo2

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Unbounded disables the iteration limit of a RetryPolicy.
const Unbounded = -1

// RetryPolicy bounds a polling loop.
type RetryPolicy struct {
	MaxIterations int
	PollDelay     time.Duration
}

func (p RetryPolicy) allows(i int) bool {
	return p.MaxIterations == Unbounded || i < p.MaxIterations
}

var (
	// DefaultBusyPolicy allows 20s, enough for the configuration erase of
	// the largest density.
	DefaultBusyPolicy = RetryPolicy{MaxIterations: 20000, PollDelay: time.Millisecond}

	// DefaultRefreshPolicy waits one refresh settle time per attempt.
	DefaultRefreshPolicy = RetryPolicy{MaxIterations: 1024, PollDelay: 5 * time.Millisecond}
)

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BusyWaiter polls the status register until BUSY clears.
type BusyWaiter struct {
	Transport Transport
	Order     ByteOrder
}

// Wait reads the status register up to p.MaxIterations times, sleeping
// p.PollDelay after each busy read. A budget of 0 fails before any read.
func (w BusyWaiter) Wait(ctx context.Context, stage string, p RetryPolicy) error {
	i := 0
	for ; p.allows(i); i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
		st, err := ReadStatus(w.Transport, w.Order)
		if err != nil {
			return err
		}
		glog.V(2).Infof("%s: poll %d: %s", stage, i, st)
		if !st.Busy {
			return nil
		}
		if err := sleep(ctx, p.PollDelay); err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
	}
	return &TimeoutError{Stage: stage, Iterations: i}
}
