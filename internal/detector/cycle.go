// Package detector holds the detector contract, the built-in environmental
// checks and the evaluation cycle that folds their results into one verdict.
package detector

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/examguard/internal/logging"
)

// Observer receives per-detector and per-cycle measurements.
type Observer interface {
	ObserveResult(res Result, took time.Duration)
	ObserveReport(rep Report)
}

// Options tunes an evaluation cycle.
type Options struct {
	// Parallel evaluates detectors concurrently. Result order is unchanged.
	Parallel bool

	// Timeout bounds each detector evaluation; zero disables it. A detector
	// that overruns is reported as degraded and its late result is dropped.
	Timeout time.Duration

	Observer Observer
}

// RunCycle evaluates every detector once and aggregates the results. It always
// returns one result per detector, in the given order.
func RunCycle(ctx context.Context, detectors []Detector, opts Options) Report {
	return runCycle(ctx, detectors, opts, 0)
}

// runCycle stamps seq on the report before the observer sees it.
func runCycle(ctx context.Context, detectors []Detector, opts Options, seq uint64) Report {
	rep := Report{CycleID: uuid.NewString(), Sequence: seq, StartedAt: time.Now()}
	results := make([]Result, len(detectors))

	if opts.Parallel && len(detectors) > 1 {
		var g errgroup.Group
		for i, d := range detectors {
			g.Go(func() error {
				results[i] = evaluate(ctx, d, opts)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, d := range detectors {
			results[i] = evaluate(ctx, d, opts)
		}
	}

	rep.Results = results
	rep.OverallRisk = overallRisk(results)
	rep.Duration = time.Since(rep.StartedAt)

	if opts.Observer != nil {
		opts.Observer.ObserveReport(rep)
	}
	return rep
}

// evaluate runs one detector behind the failure boundary and the optional
// timeout, then normalizes the result identity.
func evaluate(ctx context.Context, d Detector, opts Options) Result {
	start := time.Now()

	var res Result
	if opts.Timeout > 0 {
		res = evaluateWithTimeout(ctx, d, opts.Timeout)
	} else {
		res = safeEvaluate(ctx, d)
	}
	res.ID, res.Name = d.ID(), d.Name()
	if res.Degraded {
		res.Risk = false
	}

	took := time.Since(start)
	if res.Degraded {
		log := logging.WithComponent("cycle")
		log.Warn().Str("detector", res.ID).Dur("took", took).Str("detail", res.Detail).Msg("detector degraded")
	}
	if opts.Observer != nil {
		opts.Observer.ObserveResult(res, took)
	}
	return res
}

func evaluateWithTimeout(ctx context.Context, d Detector, timeout time.Duration) Result {
	done := make(chan Result, 1)
	go func() {
		done <- safeEvaluate(ctx, d)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res
	case <-timer.C:
		return degraded(d, fmt.Errorf("evaluation exceeded %s", timeout))
	}
}

// safeEvaluate converts errors and panics into degraded results so a broken
// detector can never drop its slot in the report.
func safeEvaluate(ctx context.Context, d Detector) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log := logging.WithComponent("cycle")
			log.Error().Str("detector", d.ID()).Bytes("stack", debug.Stack()).Msgf("detector panicked: %v", r)
			res = degraded(d, fmt.Errorf("detector panicked: %v", r))
		}
	}()

	res, err := d.Evaluate(ctx)
	if err != nil {
		return degraded(d, err)
	}
	return res
}

// Engine owns the fixed detector set of one monitor run and numbers the
// reports it produces. It keeps no report history.
type Engine struct {
	detectors []Detector
	opts      Options
	seq       atomic.Uint64
}

// NewEngine builds an engine over a fully constructed detector list.
func NewEngine(detectors []Detector, opts Options) *Engine {
	return &Engine{detectors: append([]Detector(nil), detectors...), opts: opts}
}

// Size returns the number of registered detectors.
func (e *Engine) Size() int {
	return len(e.detectors)
}

// RunCycle evaluates all detectors once.
func (e *Engine) RunCycle(ctx context.Context) Report {
	return runCycle(ctx, e.detectors, e.opts, e.seq.Add(1))
}
