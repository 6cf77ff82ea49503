package detector

import (
	"context"
	"errors"
	"testing"

	"github.com/example/examguard/internal/platform"
	"github.com/example/examguard/internal/platform/platformtest"
)

func TestRegistryBuildDetectors(t *testing.T) {
	r := Registry{
		"fake": func(Deps) Detector { return fakeDetector{id: "fake"} },
	}

	dets, err := r.BuildDetectors([]string{"fake", "fake"}, Deps{Host: &platformtest.Host{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dets) != 1 || dets[0].ID() != "fake" {
		t.Fatalf("unexpected detectors: %#v", dets)
	}
}

func TestRegistryUnknownDetector(t *testing.T) {
	_, err := DefaultRegistry.BuildDetectors([]string{IDVPN, "keylogger"}, Deps{Host: &platformtest.Host{}})
	if !errors.Is(err, ErrUnknownDetector) {
		t.Fatalf("expected ErrUnknownDetector, got %v", err)
	}
}

func TestRegistryRequiresHost(t *testing.T) {
	if _, err := DefaultRegistry.BuildDetectors(DefaultOrder, Deps{}); err == nil {
		t.Fatal("expected error without a host")
	}
}

func TestDefaultRegistryCoversDefaultOrder(t *testing.T) {
	host := &platformtest.Host{}
	dets, err := DefaultRegistry.BuildDetectors(DefaultOrder, Deps{Host: host})
	if err != nil {
		t.Fatalf("build default order: %v", err)
	}
	if len(dets) != len(DefaultOrder) {
		t.Fatalf("expected %d detectors, got %d", len(DefaultOrder), len(dets))
	}
	for i, d := range dets {
		if d.ID() != DefaultOrder[i] {
			t.Fatalf("position %d: got %s want %s", i, d.ID(), DefaultOrder[i])
		}
	}
}

// A whole-host failure still yields one result per detector, and nothing is
// reported as risk just because it could not be observed.
func TestDefaultRegistryFullCycleWithFailingHost(t *testing.T) {
	fail := errors.New("query failed")
	host := &platformtest.Host{
		ProcessesErr:      fail,
		HypervisorErr:     platform.ErrUnsupported,
		RemoteErr:         fail,
		DisplaysErr:       fail,
		ActiveDisplaysErr: fail,
		IdleErr:           platform.ErrUnsupported,
	}
	dets, err := DefaultRegistry.BuildDetectors(DefaultOrder, Deps{Host: host})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rep := RunCycle(context.Background(), dets, Options{})

	if len(rep.Results) != len(DefaultOrder) {
		t.Fatalf("expected %d results, got %d", len(DefaultOrder), len(rep.Results))
	}
	for _, res := range rep.Results {
		if !res.Degraded || res.Risk {
			t.Fatalf("expected degraded risk-free result, got %#v", res)
		}
	}
	if rep.OverallRisk {
		t.Fatal("unavailable capabilities must not raise the verdict")
	}
}

func TestDefaultRegistryRemoteToolsScenario(t *testing.T) {
	host := &platformtest.Host{
		Processes:      []string{"svchost.exe", "teamviewer.exe"},
		ActiveDisplays: 1,
	}
	deps := Deps{
		Host:         host,
		ProcessLists: map[string][]string{IDRemoteTools: {"AnyDesk.exe", "TeamViewer.exe"}},
	}
	dets, err := DefaultRegistry.BuildDetectors([]string{IDRemoteTools, IDMultipleMonitors}, deps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rep := RunCycle(context.Background(), dets, Options{})

	if !rep.Results[0].Risk || rep.Results[0].Detail != "Detected process: teamviewer.exe" {
		t.Fatalf("unexpected remote tools result %#v", rep.Results[0])
	}
	if rep.Results[1].Risk {
		t.Fatalf("single monitor should be clean: %#v", rep.Results[1])
	}
	if !rep.OverallRisk {
		t.Fatal("one positive detector must flag the report")
	}
	if got := rep.Risky(); len(got) != 1 || got[0].ID != IDRemoteTools {
		t.Fatalf("unexpected risky subset %#v", got)
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	ids := DefaultRegistry.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
	if len(ids) != len(DefaultOrder)+1 {
		t.Fatalf("expected default set plus screen-capture, got %v", ids)
	}
}
