package detector

import (
	"context"
	"fmt"
	"time"

	"github.com/example/examguard/internal/platform"
)

// IdleInputDetector flags long stretches without keyboard or mouse input.
// Stepping away from the machine trips it as well; that is accepted.
type IdleInputDetector struct {
	clock     platform.IdleClock
	threshold time.Duration
}

// DefaultIdleThreshold is the idle duration above which risk is flagged.
const DefaultIdleThreshold = 20 * time.Second

// NewIdleInputDetector builds the idle heuristic. A non-positive threshold
// falls back to DefaultIdleThreshold.
func NewIdleInputDetector(clock platform.IdleClock, threshold time.Duration) *IdleInputDetector {
	if threshold <= 0 {
		threshold = DefaultIdleThreshold
	}
	return &IdleInputDetector{clock: clock, threshold: threshold}
}

// ID implements Detector.
func (d *IdleInputDetector) ID() string { return IDIdleInput }

// Name implements Detector.
func (d *IdleInputDetector) Name() string { return "Suspicious Idle / Remote Input Pattern" }

// Evaluate implements Detector.
func (d *IdleInputDetector) Evaluate(ctx context.Context) (Result, error) {
	idle, err := d.clock.SinceLastInput()
	if err != nil {
		return degraded(d, err), nil
	}
	res := newResult(d)
	res.Risk = idle > d.threshold
	res.Detail = fmt.Sprintf("System idle for ~%d seconds.", idle.Milliseconds()/1000)
	return res, nil
}
