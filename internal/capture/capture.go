// Package capture probes whether a display output is already being captured
// by another client (OBS, conferencing tools, ...). A probe tries to take the
// exclusive output-duplication resource: being refused means somebody else
// holds it.
package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/examguard/internal/platform"
)

// Status is the outcome of a single probe.
type Status int

const (
	// Unknown means the probe could not decide, for example because the
	// duplication API is unavailable. It is never treated as captured.
	Unknown Status = iota
	// NotCaptured means the resource was free and has been released again.
	NotCaptured
	// Captured means acquisition was denied by an existing exclusive holder.
	Captured
)

func (s Status) String() string {
	switch s {
	case NotCaptured:
		return "not-captured"
	case Captured:
		return "captured"
	default:
		return "unknown"
	}
}

// Reading is one probe result.
type Reading struct {
	Display int       `json:"display"`
	Status  Status    `json:"-"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Captured reports whether the reading is a positive capture signal.
func (r Reading) Captured() bool {
	return r.Status == Captured
}

// Probe checks a single display through an OutputDuplicator.
type Probe struct {
	dup     platform.OutputDuplicator
	display int
	now     func() time.Time
}

// NewProbe builds a probe for the given display index.
func NewProbe(dup platform.OutputDuplicator, display int) *Probe {
	return &Probe{dup: dup, display: display, now: time.Now}
}

// Check attempts to acquire and immediately release the duplication resource.
func (p *Probe) Check() Reading {
	reading := Reading{Display: p.display, At: p.now()}

	release, err := p.dup.AcquireDuplication(p.display)
	if release != nil {
		defer release()
	}

	switch {
	case err == nil:
		reading.Status = NotCaptured
		reading.Detail = "Output duplication acquired and released; no active capture."
	case errors.Is(err, platform.ErrAccessDenied):
		reading.Status = Captured
		reading.Detail = fmt.Sprintf("Display %d output is held by another capture client.", p.display)
	default:
		reading.Status = Unknown
		reading.Detail = fmt.Sprintf("Capture state unknown: %v", err)
	}
	return reading
}
