package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/config"
	"github.com/example/examguard/internal/metrics"
	"github.com/example/examguard/internal/monitor"
	"github.com/example/examguard/internal/present"
)

func newMonitorCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var once bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the aggregate environment monitor until Q is entered or the process is interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRuntimeConfig(cmd, loader, flags)
			if err != nil {
				return err
			}

			collector := metrics.New()
			engine, err := buildEngine(cfg, newHost(), collector)
			if err != nil {
				return err
			}

			opts := present.Options{Clear: cfg.Clear, Refresh: cfg.Interval}
			if once {
				opts = present.Options{}
			}
			out, err := present.New(cfg.Format, cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}

			sched := monitor.Scheduler{
				Interval: cfg.Interval,
				Cycle: func(ctx context.Context) error {
					return out.Present(engine.RunCycle(ctx))
				},
			}
			if once {
				sched.MaxCycles = 1
			}

			return runLoop(cmd, cfg, sched, collector, out)
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().BoolVar(&once, "once", false, "Run a single cycle and exit")

	return cmd
}
