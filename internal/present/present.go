// Package present renders monitor output. Reports and capture readings go to
// stdout through a Presenter; diagnostics go through the logger.
package present

import (
	"fmt"
	"io"
	"time"

	"github.com/example/examguard/internal/capture"
	"github.com/example/examguard/internal/detector"
)

// Presenter writes reports for a human or a machine consumer.
type Presenter interface {
	Present(rep detector.Report) error
	PresentCapture(r capture.Reading) error
	Stopped(reason string) error
}

// Options configure presenter construction.
type Options struct {
	// Clear wipes the terminal before each report (text only).
	Clear bool
	// Refresh is shown in the footer as the time until the next cycle. Zero
	// hides the footer and the quit hint, as for single-shot runs.
	Refresh time.Duration
}

// New returns the presenter for format ("text" or "json").
func New(format string, w io.Writer, opts Options) (Presenter, error) {
	switch format {
	case "", "text":
		return NewText(w, opts), nil
	case "json":
		return NewJSON(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
