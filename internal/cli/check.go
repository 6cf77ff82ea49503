package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/config"
	"github.com/example/examguard/internal/present"
)

// ErrRiskDetected is returned by the check command when the verdict is risk,
// so scripts can gate on the exit status.
var ErrRiskDetected = errors.New("risk detected")

func newCheckCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate every detector once and exit non-zero when a risk is found",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRuntimeConfig(cmd, loader, flags)
			if err != nil {
				return err
			}

			engine, err := buildEngine(cfg, newHost(), nil)
			if err != nil {
				return err
			}

			out, err := present.New(cfg.Format, cmd.OutOrStdout(), present.Options{})
			if err != nil {
				return err
			}

			rep := engine.RunCycle(cmd.Context())
			if err := out.Present(rep); err != nil {
				return err
			}

			if rep.OverallRisk {
				ids := make([]string, 0, len(rep.Results))
				for _, res := range rep.Risky() {
					ids = append(ids, res.ID)
				}
				return &riskError{ids: ids}
			}
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)

	return cmd
}

type riskError struct {
	ids []string
}

func (e *riskError) Error() string {
	return ErrRiskDetected.Error() + ": " + strings.Join(e.ids, ", ")
}

func (e *riskError) Unwrap() error {
	return ErrRiskDetected
}
