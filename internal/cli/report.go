package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/example/examguard/internal/events"
)

// sessionSummary aggregates a recorded NDJSON monitor session.
type sessionSummary struct {
	Input         string         `json:"input"`
	Cycles        int            `json:"cycles"`
	RiskCycles    int            `json:"riskCycles"`
	FirstCycle    *time.Time     `json:"firstCycle,omitempty"`
	LastCycle     *time.Time     `json:"lastCycle,omitempty"`
	RiskByID      map[string]int `json:"riskByDetector"`
	DegradedByID  map[string]int `json:"degradedByDetector"`
	CaptureProbes int            `json:"captureProbes"`
	Captured      int            `json:"captured"`
	StopReason    string         `json:"stopReason,omitempty"`
}

func newReportCmd() *cobra.Command {
	var inputPath string
	var summaryPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a monitor session recorded with --format json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				return errors.New("--input is required")
			}

			file, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer file.Close()

			summary, err := summarizeSession(file, inputPath)
			if err != nil {
				return fmt.Errorf("%s: %w", inputPath, err)
			}

			emitter := events.NewEmitter(cmd.OutOrStdout())
			if err := emitter.Emit(events.Event{Type: "report", Message: "Session summary", Fields: summaryFields(summary)}); err != nil {
				return err
			}

			if summaryPath != "" {
				if err := writeReportSummary(summaryPath, summary); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Summary written to %s\n", summaryPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Path to an NDJSON session log")
	cmd.Flags().StringVar(&summaryPath, "summary-file", "", "Optional path to store summary JSON")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

func summarizeSession(r io.Reader, input string) (sessionSummary, error) {
	summary := sessionSummary{
		Input:        input,
		RiskByID:     map[string]int{},
		DegradedByID: map[string]int{},
	}

	err := events.Read(r, func(evt events.Event) error {
		switch evt.Type {
		case events.TypeCycle:
			summary.Cycles++
			if risk, _ := evt.Fields["overall_risk"].(bool); risk {
				summary.RiskCycles++
			}
			ts := evt.Timestamp
			if summary.FirstCycle == nil || ts.Before(*summary.FirstCycle) {
				summary.FirstCycle = &ts
			}
			if summary.LastCycle == nil || ts.After(*summary.LastCycle) {
				summary.LastCycle = &ts
			}
		case events.TypeResult:
			id, _ := evt.Fields["id"].(string)
			if id == "" {
				return nil
			}
			if risk, _ := evt.Fields["risk"].(bool); risk {
				summary.RiskByID[id]++
			}
			if degraded, _ := evt.Fields["degraded"].(bool); degraded {
				summary.DegradedByID[id]++
			}
		case events.TypeCapture:
			summary.CaptureProbes++
			if captured, _ := evt.Fields["captured"].(bool); captured {
				summary.Captured++
			}
		case events.TypeStopped:
			summary.StopReason = evt.Message
		}
		return nil
	})
	return summary, err
}

func summaryFields(s sessionSummary) map[string]any {
	fields := map[string]any{
		"input":         s.Input,
		"cycles":        s.Cycles,
		"riskCycles":    s.RiskCycles,
		"captureProbes": s.CaptureProbes,
		"captured":      s.Captured,
	}

	risky := make([]string, 0, len(s.RiskByID))
	for id := range s.RiskByID {
		risky = append(risky, id)
	}
	sort.Strings(risky)
	fields["riskyDetectors"] = risky

	if s.FirstCycle != nil && s.LastCycle != nil {
		fields["span"] = s.LastCycle.Sub(*s.FirstCycle).String()
	}
	if s.StopReason != "" {
		fields["stopReason"] = s.StopReason
	}
	return fields
}

func writeReportSummary(path string, summary sessionSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
