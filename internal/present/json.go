package present

import (
	"io"

	"github.com/example/examguard/internal/capture"
	"github.com/example/examguard/internal/detector"
	"github.com/example/examguard/internal/events"
)

// JSON writes reports as NDJSON events: one result event per detector
// followed by a cycle summary, all tagged with the cycle id.
type JSON struct {
	emitter *events.Emitter
}

// NewJSON builds a JSON presenter writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{emitter: events.NewEmitter(w)}
}

// Present emits the report as one contiguous block of events.
func (j *JSON) Present(rep detector.Report) error {
	block := make([]events.Event, 0, len(rep.Results)+1)
	for i, res := range rep.Results {
		block = append(block, events.Event{
			Type:      events.TypeResult,
			Timestamp: rep.StartedAt.UTC(),
			Cycle:     rep.CycleID,
			Message:   res.Detail,
			Fields: map[string]any{
				"position": i,
				"id":       res.ID,
				"name":     res.Name,
				"risk":     res.Risk,
				"degraded": res.Degraded,
			},
		})
	}

	risky := make([]string, 0)
	for _, res := range rep.Risky() {
		risky = append(risky, res.ID)
	}
	block = append(block, events.Event{
		Type:      events.TypeCycle,
		Timestamp: rep.StartedAt.UTC(),
		Cycle:     rep.CycleID,
		Message:   verdict(rep.OverallRisk),
		Fields: map[string]any{
			"sequence":     rep.Sequence,
			"overall_risk": rep.OverallRisk,
			"risky":        risky,
			"detectors":    len(rep.Results),
			"duration_ms":  rep.Duration.Milliseconds(),
		},
	})

	return j.emitter.EmitAll(block)
}

// PresentCapture emits one capture event.
func (j *JSON) PresentCapture(r capture.Reading) error {
	return j.emitter.Emit(events.Event{
		Type:      events.TypeCapture,
		Timestamp: r.At.UTC(),
		Message:   r.Detail,
		Fields: map[string]any{
			"display":  r.Display,
			"status":   r.Status.String(),
			"captured": r.Captured(),
		},
	})
}

// Stopped emits the end-of-session marker.
func (j *JSON) Stopped(reason string) error {
	return j.emitter.Emit(events.Event{Type: events.TypeStopped, Message: reason})
}

func verdict(risk bool) string {
	if risk {
		return "RISK DETECTED"
	}
	return "CLEAN"
}
