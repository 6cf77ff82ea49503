// Package monitor drives evaluation cycles on a fixed period until the run is
// cancelled.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/example/examguard/internal/logging"
)

// Scheduler runs Cycle immediately and then every Interval. The wait between
// cycles blocks on the context, so cancellation is observed at once; a cycle
// that has started always runs to completion.
type Scheduler struct {
	Interval time.Duration

	// MaxCycles stops the loop after that many cycles; zero means unlimited.
	MaxCycles int

	Cycle func(ctx context.Context) error
}

// Run loops until ctx is cancelled, MaxCycles is reached or Cycle returns an
// error. Cancellation is a clean stop and returns nil.
func (s Scheduler) Run(ctx context.Context) error {
	if s.Cycle == nil {
		return errors.New("scheduler: no cycle function")
	}
	if s.Interval <= 0 && s.MaxCycles != 1 {
		return errors.New("scheduler: interval must be positive")
	}

	log := logging.WithComponent("scheduler")

	for n := 1; ; n++ {
		if ctx.Err() != nil {
			log.Debug().Int("cycles", n-1).Msg("stopped before cycle")
			return nil
		}

		// The running cycle is shielded from cancellation; cancellation is
		// only acted on between cycles.
		if err := s.Cycle(context.WithoutCancel(ctx)); err != nil {
			return err
		}

		if s.MaxCycles > 0 && n >= s.MaxCycles {
			log.Debug().Int("cycles", n).Msg("cycle limit reached")
			return nil
		}

		timer := time.NewTimer(s.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Debug().Int("cycles", n).Msg("stopped while waiting")
			return nil
		case <-timer.C:
		}
	}
}
