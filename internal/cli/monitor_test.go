package cli

import (
	"bytes"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/examguard/internal/detector"
	"github.com/example/examguard/internal/events"
	"github.com/example/examguard/internal/platform"
	"github.com/example/examguard/internal/platform/platformtest"
)

func readEventsFrom(t *testing.T, data string) []events.Event {
	t.Helper()
	var out []events.Event
	if err := events.Read(strings.NewReader(data), func(evt events.Event) error {
		out = append(out, evt)
		return nil
	}); err != nil {
		t.Fatalf("output is not NDJSON: %v\n%s", err, data)
	}
	return out
}

func TestMonitorOnceJSON(t *testing.T) {
	useHost(t, &platformtest.Host{
		Processes:      []string{"explorer.exe", "teamviewer.exe"},
		ActiveDisplays: 1,
		Idle:           2 * time.Second,
	})

	cmd := newMonitorCmd(testLoader(t))
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"--once", "--format", "json", "--log-level", "disabled"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("monitor --once failed: %v\n%s", err, stderr.String())
	}

	evts := readEventsFrom(t, stdout.String())
	if len(evts) != len(detector.DefaultOrder)+1 {
		t.Fatalf("expected %d events, got %d", len(detector.DefaultOrder)+1, len(evts))
	}
	for i, id := range detector.DefaultOrder {
		if evts[i].Fields["id"] != id {
			t.Fatalf("event %d: expected detector %s, got %v", i, id, evts[i].Fields["id"])
		}
	}

	summary := evts[len(evts)-1]
	if summary.Type != events.TypeCycle || summary.Fields["overall_risk"] != true {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if evts[1].Message != "Detected process: teamviewer.exe" {
		t.Fatalf("unexpected remote tools detail %q", evts[1].Message)
	}
}

func TestMonitorOnceTextCleanHost(t *testing.T) {
	useHost(t, &platformtest.Host{ActiveDisplays: 1})

	cmd := newMonitorCmd(testLoader(t))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--once", "--detectors", "remote-tools,multiple-monitors,idle-input"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("monitor --once failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "OVERALL STATUS: CLEAN (No obvious risks)") {
		t.Fatalf("expected clean verdict:\n%s", text)
	}
	if strings.Contains(text, "Refreshing") {
		t.Fatalf("single cycle must not print the refresh footer:\n%s", text)
	}
}

func TestMonitorLoopStopsOnQuitKey(t *testing.T) {
	useHost(t, &platformtest.Host{ActiveDisplays: 1})

	cmd := newMonitorCmd(testLoader(t))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("q\n"))
	cmd.SetArgs([]string{"--interval", "50ms", "--poll-interval", "5ms", "--no-clear", "--detectors", "vpn"})

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("monitor loop failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop on quit key")
	}

	if !strings.Contains(out.String(), "Exiting monitor... (quit requested)") {
		t.Fatalf("expected exit line, got:\n%s", out.String())
	}
}

func TestMonitorRejectsInvalidConfig(t *testing.T) {
	useHost(t, &platformtest.Host{})

	cmd := newMonitorCmd(testLoader(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--once", "--detectors", "keylogger"})

	if err := cmd.Execute(); !errors.Is(err, detector.ErrUnknownDetector) {
		t.Fatalf("expected ErrUnknownDetector, got %v", err)
	}
}

func TestMonitorOnceDegradedHostIsNotRisk(t *testing.T) {
	fail := errors.New("query failed")
	useHost(t, &platformtest.Host{
		ProcessesErr:      fail,
		HypervisorErr:     platform.ErrUnsupported,
		RemoteErr:         fail,
		DisplaysErr:       fail,
		ActiveDisplaysErr: fail,
		IdleErr:           platform.ErrUnsupported,
	})

	cmd := newMonitorCmd(testLoader(t))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--once", "--format", "json", "--log-level", "disabled"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("monitor --once failed: %v", err)
	}

	evts := readEventsFrom(t, out.String())
	for _, evt := range evts[:len(evts)-1] {
		if evt.Fields["degraded"] != true || evt.Fields["risk"] != false {
			t.Fatalf("expected degraded risk-free result, got %+v", evt)
		}
	}
	if evts[len(evts)-1].Fields["overall_risk"] != false {
		t.Fatal("degraded coverage must not raise the verdict")
	}
}

type brokenWriter struct {
	writes atomic.Int32
}

var errBrokenPipe = errors.New("broken pipe")

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.writes.Add(1)
	return 0, errBrokenPipe
}

func TestMonitorLoopReturnsPresenterError(t *testing.T) {
	useHost(t, &platformtest.Host{ActiveDisplays: 1})

	out := &brokenWriter{}
	cmd := newMonitorCmd(testLoader(t))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--interval", "20ms", "--poll-interval", "5ms", "--detectors", "vpn"})

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	select {
	case err := <-done:
		if !errors.Is(err, errBrokenPipe) {
			t.Fatalf("expected the write error, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "monitor: ") {
			t.Fatalf("error should name the command, got %q", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("monitor kept running after its output failed")
	}

	if n := out.writes.Load(); n != 1 {
		t.Fatalf("expected a single failed write, got %d", n)
	}
}
