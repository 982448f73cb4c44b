package machine

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Cycler runs one complete cycle
type Cycler interface {
	RunCycle(ctx context.Context) CycleReport
}

// Runner calls a Cycler once immediately and then on every tick. Cycles run
// on a single goroutine, so they never overlap and a slow cycle delays the
// next tick instead of stacking up.
type Runner struct {
	cycler   Cycler
	interval time.Duration
	trigger  chan struct{}
}

// NewRunner creates a runner with the given poll interval
func NewRunner(c Cycler, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Runner{
		cycler:   c,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Interval returns the poll interval
func (r *Runner) Interval() time.Duration {
	return r.interval
}

// Trigger requests an extra cycle as soon as the current one finishes.
// Requests made while one is already pending are coalesced.
func (r *Runner) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled and returns ctx.Err()
func (r *Runner) Run(ctx context.Context) error {
	log.Printf("Starting poll loop (interval=%s)", r.interval)
	r.cycle(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Stopping poll loop")
			return ctx.Err()
		case <-ticker.C:
			r.cycle(ctx)
		case <-r.trigger:
			r.cycle(ctx)
		}
	}
}

func (r *Runner) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report := r.cycler.RunCycle(ctx)
	entry := log.WithFields(log.Fields{
		"steps":    len(report.Steps),
		"duration": report.Duration.Round(time.Millisecond),
	})
	if report.Attempted {
		entry = entry.WithField("outcome", report.Outcome)
	}
	entry.Debug("Cycle complete")
}
