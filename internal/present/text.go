package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/examguard/internal/capture"
	"github.com/example/examguard/internal/detector"
)

const (
	rule        = "====================================================="
	clearScreen = "\033[H\033[2J"
)

// Text renders the operator console view.
type Text struct {
	w    io.Writer
	opts Options

	title *color.Color
	risk  *color.Color
	ok    *color.Color
	warn  *color.Color
	dim   *color.Color
}

// NewText builds a text presenter writing to w.
func NewText(w io.Writer, opts Options) *Text {
	t := &Text{
		w:     w,
		opts:  opts,
		title: color.New(color.FgCyan, color.Bold),
		risk:  color.New(color.FgRed, color.Bold),
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		dim:   color.New(color.FgHiBlack),
	}
	return t
}

// Present prints one full report.
func (t *Text) Present(rep detector.Report) error {
	var b strings.Builder

	if t.opts.Clear {
		b.WriteString(clearScreen)
	}
	t.header(&b, "EXAM SECURITY MASTER MONITOR", "   (Press Q to quit)")

	for _, res := range rep.Results {
		switch {
		case res.Degraded:
			fmt.Fprintf(&b, "%s %s\n", t.warn.Sprint("[ ?? ]"), res.Name)
		case res.Risk:
			fmt.Fprintf(&b, "%s %s\n", t.risk.Sprint("[RISK]"), res.Name)
		default:
			fmt.Fprintf(&b, "%s %s\n", t.ok.Sprint("[ OK ]"), res.Name)
		}
		if res.Detail != "" {
			fmt.Fprintf(&b, "       %s\n", res.Detail)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	if rep.OverallRisk {
		fmt.Fprintf(&b, "OVERALL STATUS: %s\n", t.risk.Sprint("RISK DETECTED"))
	} else {
		fmt.Fprintf(&b, "OVERALL STATUS: %s\n", t.ok.Sprint("CLEAN (No obvious risks)"))
	}
	b.WriteString(rule + "\n")

	if t.opts.Refresh > 0 {
		fmt.Fprintf(&b, "\nRefreshing in %g seconds... (Press Q to exit)\n", t.opts.Refresh.Seconds())
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

// PresentCapture prints the single-line capture status view.
func (t *Text) PresentCapture(r capture.Reading) error {
	var b strings.Builder

	if t.opts.Clear {
		b.WriteString(clearScreen)
	}
	t.header(&b, "SCREEN CAPTURE DETECTION LIVE", "     (Press Q anytime to exit)")

	switch r.Status {
	case capture.Captured:
		fmt.Fprintf(&b, "  STATUS:  %s\n", t.risk.Sprint("SCREEN IS BEING CAPTURED"))
	case capture.NotCaptured:
		fmt.Fprintf(&b, "  STATUS:  %s\n", t.ok.Sprint("NO ACTIVE SCREEN CAPTURE DETECTED"))
	default:
		fmt.Fprintf(&b, "  STATUS:  %s\n", t.warn.Sprint("CAPTURE STATE UNKNOWN"))
	}
	if r.Detail != "" {
		fmt.Fprintf(&b, "  %s\n", t.dim.Sprint(r.Detail))
	}

	if t.opts.Refresh > 0 {
		fmt.Fprintf(&b, "\nRefreshing every %g second(s)...\n", t.opts.Refresh.Seconds())
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(t.w, b.String())
	return err
}

// Stopped prints the exit line.
func (t *Text) Stopped(reason string) error {
	var b strings.Builder
	if t.opts.Clear {
		b.WriteString(clearScreen)
	}
	b.WriteString("Exiting monitor...")
	if reason != "" {
		fmt.Fprintf(&b, " (%s)", reason)
	}
	b.WriteString("\n")

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Text) header(b *strings.Builder, title, hint string) {
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "            %s\n", t.title.Sprint(title))
	b.WriteString(rule + "\n")
	if t.opts.Refresh > 0 {
		b.WriteString(hint + "\n")
	}
	b.WriteString("\n")
}
