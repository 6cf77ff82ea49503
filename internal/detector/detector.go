package detector

import (
	"context"
	"fmt"
	"time"
)

// Result is the outcome of one detector for one cycle.
type Result struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Risk     bool   `json:"risk"`
	Detail   string `json:"detail,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Detector is implemented by every environmental check. Evaluate must only
// observe the system; it never alters state.
type Detector interface {
	ID() string
	Name() string
	Evaluate(ctx context.Context) (Result, error)
}

// Report is the full set of results for one evaluation cycle.
type Report struct {
	CycleID     string        `json:"cycleId"`
	Sequence    uint64        `json:"sequence"`
	StartedAt   time.Time     `json:"startedAt"`
	Duration    time.Duration `json:"duration"`
	Results     []Result      `json:"results"`
	OverallRisk bool          `json:"overallRisk"`
}

// Risky returns the results that flagged risk, in registry order.
func (r Report) Risky() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Risk {
			out = append(out, res)
		}
	}
	return out
}

// overallRisk is the aggregation rule: any single positive signal flags the
// whole report.
func overallRisk(results []Result) bool {
	for _, r := range results {
		if r.Risk {
			return true
		}
	}
	return false
}

// newResult starts a result carrying the detector's identity.
func newResult(d Detector) Result {
	return Result{ID: d.ID(), Name: d.Name()}
}

// degraded builds the result used whenever a detector could not observe its
// signal. Missing evidence is never reported as risk.
func degraded(d Detector, err error) Result {
	res := newResult(d)
	res.Degraded = true
	res.Detail = fmt.Sprintf("Check unavailable, coverage degraded: %v", err)
	return res
}
