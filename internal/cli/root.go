package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/config"
	"github.com/example/examguard/internal/platform"
)

var version = "dev"

// newHost is swapped by tests for a scripted host.
var newHost = platform.NewHost

// Execute builds the root command tree and runs the CLI. SIGINT and SIGTERM
// cancel the command context, which stops monitor loops cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	loader := &config.Loader{ConfigPath: config.DefaultConfigPath}
	rootOpts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "examguard",
		Short:         "Local endpoint integrity monitor for proctored exams",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("examguard version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", config.DefaultConfigPath, "Path to examguard.config.yml (optional)")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.NoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if rootOpts.ConfigPath != "" {
			loader.ConfigPath = rootOpts.ConfigPath
		}
		if rootOpts.NoColor {
			color.NoColor = true
		}
	}

	rootCmd.AddCommand(
		newMonitorCmd(loader),
		newCheckCmd(loader),
		newCaptureCmd(loader),
		newInitCmd(loader),
		newDoctorCmd(loader),
		newReportCmd(),
	)

	return rootCmd
}

type rootOptions struct {
	ConfigPath string
	NoColor    bool
}
