package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/capture"
	"github.com/example/examguard/internal/config"
	"github.com/example/examguard/internal/metrics"
	"github.com/example/examguard/internal/monitor"
	"github.com/example/examguard/internal/present"
)

func newCaptureCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var once bool

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Watch whether the screen output is being captured by another client",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRuntimeConfig(cmd, loader, flags)
			if err != nil {
				return err
			}

			collector := metrics.New()
			probe := capture.NewProbe(newHost(), cfg.CaptureDisplay)

			opts := present.Options{Clear: cfg.Clear, Refresh: cfg.CaptureInterval}
			if once {
				opts = present.Options{}
			}
			out, err := present.New(cfg.Format, cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}

			sched := monitor.Scheduler{
				Interval: cfg.CaptureInterval,
				Cycle: func(context.Context) error {
					reading := probe.Check()
					collector.ObserveCapture(reading)
					return out.PresentCapture(reading)
				},
			}
			if once {
				sched.MaxCycles = 1
			}

			return runLoop(cmd, cfg, sched, collector, out)
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().BoolVar(&once, "once", false, "Probe once and exit")

	return cmd
}
