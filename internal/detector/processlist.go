package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/examguard/internal/platform"
)

// matchFirst walks candidates in order and returns the first live process
// whose name equals a candidate, ignoring case. It stops at the first hit.
func matchFirst(candidates, running []string) (string, bool) {
	for _, candidate := range candidates {
		for _, name := range running {
			if strings.EqualFold(name, candidate) {
				return name, true
			}
		}
	}
	return "", false
}

// findProcess reads the process table once and matches it against candidates.
func findProcess(ctx context.Context, procs platform.ProcessLister, candidates []string) (string, bool, error) {
	running, err := procs.ProcessNames(ctx)
	if err != nil {
		return "", false, err
	}
	hit, ok := matchFirst(candidates, running)
	return hit, ok, nil
}

// ProcessListDetector flags risk when any process from a configured name list
// is running.
type ProcessListDetector struct {
	id         string
	name       string
	clean      string
	candidates []string
	procs      platform.ProcessLister
}

// NewProcessListDetector builds a name-list detector. clean is the detail
// reported when nothing matches.
func NewProcessListDetector(id, name, clean string, candidates []string, procs platform.ProcessLister) *ProcessListDetector {
	return &ProcessListDetector{
		id:         id,
		name:       name,
		clean:      clean,
		candidates: append([]string(nil), candidates...),
		procs:      procs,
	}
}

// ID implements Detector.
func (d *ProcessListDetector) ID() string { return d.id }

// Name implements Detector.
func (d *ProcessListDetector) Name() string { return d.name }

// Evaluate implements Detector.
func (d *ProcessListDetector) Evaluate(ctx context.Context) (Result, error) {
	hit, found, err := findProcess(ctx, d.procs, d.candidates)
	if err != nil {
		return degraded(d, err), nil
	}

	res := newResult(d)
	res.Risk = found
	if found {
		res.Detail = fmt.Sprintf("Detected process: %s", hit)
	} else {
		res.Detail = d.clean
	}
	return res, nil
}
