package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/config"
)

// runtimeFlagSet tracks shared flags before they are converted into config overrides.
type runtimeFlagSet struct {
	interval        time.Duration
	pollInterval    time.Duration
	captureInterval time.Duration
	idleThreshold   time.Duration
	detectorTimeout time.Duration
	detectors       string
	parallel        bool
	format          string
	noClear         bool
	metricsAddr     string
	logLevel        string
	logFormat       string
	captureDisplay  int
}

func bindRuntimeFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	cmd.Flags().DurationVar(&flags.interval, "interval", 0, "Refresh period of the aggregate monitor (default 5s)")
	cmd.Flags().DurationVar(&flags.pollInterval, "poll-interval", 0, "How often the quit key is polled (default 100ms)")
	cmd.Flags().DurationVar(&flags.captureInterval, "capture-interval", 0, "Refresh period of the capture monitor (default 1s)")
	cmd.Flags().DurationVar(&flags.idleThreshold, "idle-threshold", 0, "Input idle time that counts as a risk signal (default 20s)")
	cmd.Flags().DurationVar(&flags.detectorTimeout, "detector-timeout", 0, "Per-detector time budget; 0 disables it")
	cmd.Flags().StringVar(&flags.detectors, "detectors", "", "Comma-separated detector ids to run, in order (overrides config)")
	cmd.Flags().BoolVar(&flags.parallel, "parallel", false, "Evaluate detectors concurrently")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: text or json")
	cmd.Flags().BoolVar(&flags.noClear, "no-clear", false, "Do not clear the terminal between reports")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on host:port")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")
	cmd.Flags().IntVar(&flags.captureDisplay, "capture-display", 0, "Display index probed by the capture monitor")
}

func (f runtimeFlagSet) toOverrides(cmd *cobra.Command) config.Overrides {
	ov := config.Overrides{}
	if cmd.Flags().Changed("interval") {
		ov.Interval = f.interval
	}

	if cmd.Flags().Changed("poll-interval") {
		ov.PollInterval = f.pollInterval
	}

	if cmd.Flags().Changed("capture-interval") {
		ov.CaptureInterval = f.captureInterval
	}

	if cmd.Flags().Changed("idle-threshold") {
		ov.IdleThreshold = f.idleThreshold
	}

	if cmd.Flags().Changed("detector-timeout") {
		ov.DetectorTimeout = &f.detectorTimeout
	}

	if cmd.Flags().Changed("detectors") {
		ov.Detectors = config.ParseList(f.detectors)
	}

	if cmd.Flags().Changed("parallel") {
		ov.Parallel = &f.parallel
	}

	if cmd.Flags().Changed("format") {
		ov.Format = f.format
	}

	if cmd.Flags().Changed("no-clear") {
		clearScreen := !f.noClear
		ov.Clear = &clearScreen
	}

	if cmd.Flags().Changed("metrics-addr") {
		ov.MetricsAddr = f.metricsAddr
	}

	if cmd.Flags().Changed("log-level") {
		ov.LogLevel = f.logLevel
	}

	if cmd.Flags().Changed("log-format") {
		ov.LogFormat = f.logFormat
	}

	if cmd.Flags().Changed("capture-display") {
		ov.CaptureDisplay = &f.captureDisplay
	}

	return ov
}
