package detector

import (
	"context"
	"errors"

	"github.com/example/examguard/internal/capture"
)

// ScreenCaptureDetector wraps the output-duplication probe so the aggregate
// monitor can include it. An unknown probe state is degraded, never risk.
type ScreenCaptureDetector struct {
	probe *capture.Probe
}

// NewScreenCaptureDetector builds the screen-capture detector.
func NewScreenCaptureDetector(probe *capture.Probe) *ScreenCaptureDetector {
	return &ScreenCaptureDetector{probe: probe}
}

// ID implements Detector.
func (d *ScreenCaptureDetector) ID() string { return IDScreenCapture }

// Name implements Detector.
func (d *ScreenCaptureDetector) Name() string { return "Active Screen Capture" }

// Evaluate implements Detector.
func (d *ScreenCaptureDetector) Evaluate(ctx context.Context) (Result, error) {
	reading := d.probe.Check()
	if reading.Status == capture.Unknown {
		return degraded(d, errors.New(reading.Detail)), nil
	}
	res := newResult(d)
	res.Risk = reading.Captured()
	res.Detail = reading.Detail
	return res, nil
}
