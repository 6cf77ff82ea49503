package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/config"
	"github.com/example/examguard/internal/platform"
)

type doctorCheck struct {
	Name   string
	Status string // "✓", "⊘" or "✗"
	Detail string
	Error  error
}

func newDoctorCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and report which host capabilities are available",
		Long: `The doctor subcommand inspects the environment examguard runs in:
- Go runtime and platform
- every host capability the detectors rely on (process table, hypervisor
  flag, session type, display enumeration, input idle clock, output
  duplication)
- configuration validity

Unsupported capabilities are not failures; detectors that depend on them
report degraded coverage instead of risk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(flags.toOverrides(cmd))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			checks := runDoctorChecks(ctx, &cfg, newHost())
			printDoctorReport(cmd, checks)

			for _, check := range checks {
				if check.Error != nil {
					return fmt.Errorf("doctor checks failed")
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\n✓ All checks passed. Monitor is ready.")
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for capability probes")

	return cmd
}

func runDoctorChecks(ctx context.Context, cfg *config.RuntimeConfig, host platform.Host) []doctorCheck {
	checks := []doctorCheck{checkGoVersion()}
	checks = append(checks, checkCapabilities(ctx, host, cfg.CaptureDisplay)...)
	checks = append(checks, checkConfiguration(cfg))
	return checks
}

func checkGoVersion() doctorCheck {
	return doctorCheck{
		Name:   "Go Runtime",
		Status: "✓",
		Detail: fmt.Sprintf("Version %s (%s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}
}

func checkCapabilities(ctx context.Context, host platform.Host, display int) []doctorCheck {
	return []doctorCheck{
		capabilityCheck("Process Table", func() (string, error) {
			names, err := host.ProcessNames(ctx)
			return fmt.Sprintf("%d processes visible", len(names)), err
		}),
		capabilityCheck("Hypervisor Flag", func() (string, error) {
			present, err := host.HypervisorPresent()
			return fmt.Sprintf("hypervisor bit %s", onOff(present)), err
		}),
		capabilityCheck("Session Type", func() (string, error) {
			remote, err := host.RemoteSession()
			if remote {
				return "remote session", err
			}
			return "local console", err
		}),
		capabilityCheck("Display Enumeration", func() (string, error) {
			devices, err := host.DisplayDevices()
			return fmt.Sprintf("%d display devices", len(devices)), err
		}),
		capabilityCheck("Active Displays", func() (string, error) {
			n, err := host.ActiveDisplayCount()
			return fmt.Sprintf("%d active", n), err
		}),
		capabilityCheck("Input Idle Clock", func() (string, error) {
			idle, err := host.SinceLastInput()
			return fmt.Sprintf("last input %s ago", idle.Round(time.Second)), err
		}),
		capabilityCheck("Output Duplication", func() (string, error) {
			release, err := host.AcquireDuplication(display)
			if release != nil {
				release()
			}
			if errors.Is(err, platform.ErrAccessDenied) {
				return fmt.Sprintf("display %d held by another client", display), nil
			}
			return fmt.Sprintf("display %d available", display), err
		}),
	}
}

func capabilityCheck(name string, probe func() (string, error)) doctorCheck {
	detail, err := probe()
	switch {
	case errors.Is(err, platform.ErrUnsupported):
		return doctorCheck{Name: name, Status: "⊘", Detail: "Unsupported here, coverage degraded"}
	case err != nil:
		return doctorCheck{Name: name, Status: "✗", Detail: "Query failed", Error: err}
	default:
		return doctorCheck{Name: name, Status: "✓", Detail: detail}
	}
}

func checkConfiguration(cfg *config.RuntimeConfig) doctorCheck {
	err := cfg.Validate()
	if err != nil {
		return doctorCheck{
			Name:   "Configuration",
			Status: "✗",
			Detail: "Invalid configuration",
			Error:  err,
		}
	}

	return doctorCheck{
		Name:   "Configuration",
		Status: "✓",
		Detail: fmt.Sprintf("%d detectors, interval=%s", len(cfg.Detectors), cfg.Interval),
	}
}

func printDoctorReport(cmd *cobra.Command, checks []doctorCheck) {
	fmt.Fprintln(cmd.OutOrStdout(), "Running environment diagnostics...")

	for _, check := range checks {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-30s %s\n", check.Status, check.Name+":", check.Detail)
		if check.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "   Error: %v\n", check.Error)
		}
	}
}

func onOff(b bool) string {
	if b {
		return "set"
	}
	return "clear"
}
