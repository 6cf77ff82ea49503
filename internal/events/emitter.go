package events

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Event types written by the monitor.
const (
	TypeCycle   = "cycle"
	TypeResult  = "result"
	TypeCapture = "capture"
	TypeStopped = "stopped"
)

// Event represents a single NDJSON record of a monitoring session.
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Cycle     string         `json:"cycle,omitempty"`
	Message   string         `json:"message,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Emitter writes NDJSON events to an io.Writer safely across goroutines.
type Emitter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewEmitter returns a new NDJSON emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{writer: w}
}

// Emit serializes the event to JSON and appends a newline.
func (e *Emitter) Emit(evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.writer.Write(append(payload, '\n')); err != nil {
		return err
	}

	return nil
}

// EmitAll writes events as one contiguous block so a cycle is never
// interleaved with output from another goroutine.
func (e *Emitter) EmitAll(evts []Event) error {
	var buf []byte
	now := time.Now().UTC()
	for _, evt := range evts {
		if evt.Timestamp.IsZero() {
			evt.Timestamp = now
		}
		payload, err := json.Marshal(evt)
		if err != nil {
			return err
		}
		buf = append(buf, payload...)
		buf = append(buf, '\n')
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.writer.Write(buf)
	return err
}

// Read decodes an NDJSON stream, skipping blank lines. fn is called for each
// event in order; returning an error stops the scan.
func Read(r io.Reader, fn func(Event) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(evt); err != nil {
			return err
		}
	}
	return scanner.Err()
}
