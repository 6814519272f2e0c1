// Package scheduler triggers ingestion passes on a fixed interval.
package scheduler

import (
	"context"
	"time"
)

// IntervalScheduler runs a job immediately and then on every tick.
type IntervalScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

// NewIntervalScheduler builds a scheduler; interval <= 0 falls back to two
// hours.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = 2 * time.Hour
	}
	return &IntervalScheduler{interval: interval}
}

// Start begins ticking. The first run fires synchronously with startup so a
// fresh deployment has a feed before the first interval elapses.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}
	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}
