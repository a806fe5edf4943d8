package scheduler

import (
	"context"
	"time"

	"GoalWatcher/internal/ports"
)

// Poller runs a cycle in a loop. Cancellation is observed between cycles
// only; a cycle in progress is never interrupted by the poller itself.
type Poller struct {
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

var _ ports.Poller = (*Poller)(nil)

// NewPoller returns a poller driven by the wall clock.
func NewPoller() *Poller {
	return &Poller{now: time.Now, sleep: sleepContext}
}

// WithClock swaps the time source and the sleeper. Either may be nil.
func (p *Poller) WithClock(now func() time.Time, sleep func(context.Context, time.Duration) bool) *Poller {
	if now != nil {
		p.now = now
	}
	if sleep != nil {
		p.sleep = sleep
	}
	return p
}

// Run loops until ctx is done and returns the number of completed cycles.
func (p *Poller) Run(ctx context.Context, cycle func(ctx context.Context, now time.Time) time.Duration) int {
	runs := 0
	for ctx.Err() == nil {
		wait := cycle(ctx, p.now())
		runs++
		if !p.sleep(ctx, wait) {
			break
		}
	}
	return runs
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
