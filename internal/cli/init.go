package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/config"
)

func newInitCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration with the built-in process lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Starter(flags.toOverrides(cmd))
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := cfg.WriteFile(loader.ConfigPath, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s (%d detectors)\n", loader.ConfigPath, len(cfg.Detectors))
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}
