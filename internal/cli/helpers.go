package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/config"
	"github.com/example/examguard/internal/detector"
	"github.com/example/examguard/internal/logging"
	"github.com/example/examguard/internal/metrics"
	"github.com/example/examguard/internal/monitor"
	"github.com/example/examguard/internal/platform"
	"github.com/example/examguard/internal/present"
	"github.com/example/examguard/internal/supervisor"
)

// loadRuntimeConfig resolves and validates the configuration of a command and
// applies its logging settings.
func loadRuntimeConfig(cmd *cobra.Command, loader *config.Loader, flags *runtimeFlagSet) (config.RuntimeConfig, error) {
	cfg, err := loader.Load(flags.toOverrides(cmd))
	if err != nil {
		return cfg, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
	return cfg, nil
}

// buildEngine constructs the fixed detector set of one run.
func buildEngine(cfg config.RuntimeConfig, host platform.Host, observer detector.Observer) (*detector.Engine, error) {
	dets, err := detector.DefaultRegistry.BuildDetectors(cfg.Detectors, detector.Deps{
		Host:           host,
		ProcessLists:   cfg.ProcessLists,
		DisplayMarkers: cfg.DisplayMarkers,
		IdleThreshold:  cfg.IdleThreshold,
		CaptureDisplay: cfg.CaptureDisplay,
	})
	if err != nil {
		return nil, err
	}

	opts := detector.Options{Parallel: cfg.Parallel, Timeout: cfg.DetectorTimeout, Observer: observer}
	return detector.NewEngine(dets, opts), nil
}

// runLoop drives sched until the user quits, the command context is
// cancelled or the cycle limit is reached. Long-running loops are supervised
// together with the optional metrics endpoint.
func runLoop(cmd *cobra.Command, cfg config.RuntimeConfig, sched monitor.Scheduler, collector *metrics.Collector, out present.Presenter) error {
	log := logging.WithComponent("cli")

	if sched.MaxCycles > 0 {
		return sched.Run(cmd.Context())
	}

	quit := monitor.NewQuitKey(cmd.InOrStdin())
	ctx, cancel := monitor.WatchQuit(cmd.Context(), quit.Pressed, cfg.PollInterval)
	defer cancel()

	tree := supervisor.NewTree(supervisor.TreeConfig{})
	loop := supervisor.NewMonitorService(cmd.Name(), sched.Run)
	tree.Add(loop)
	if cfg.MetricsAddr != "" {
		tree.Add(supervisor.NewMetricsService(cfg.MetricsAddr, collector.Handler(), 0))
	}

	log.Info().Str("command", cmd.Name()).Dur("interval", sched.Interval).Msg("monitor started")
	err := tree.Serve(ctx)

	if loopErr := loop.Err(); loopErr != nil {
		log.Error().Err(loopErr).Msg("monitor failed")
		return loopErr
	}

	reason := stopReason(ctx)
	log.Info().Str("reason", reason).Msg("monitor stopped")
	if stopErr := out.Stopped(reason); err == nil {
		err = stopErr
	}
	return err
}

func stopReason(ctx context.Context) string {
	cause := context.Cause(ctx)
	switch {
	case errors.Is(cause, monitor.ErrQuitRequested):
		return "quit requested"
	case cause != nil:
		return "interrupted"
	default:
		return "finished"
	}
}
