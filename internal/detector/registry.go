package detector

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/examguard/internal/capture"
	"github.com/example/examguard/internal/platform"
)

// Detector identifiers. They double as keys in configuration.
const (
	IDRemoteSession    = "remote-session"
	IDRemoteTools      = "remote-tools"
	IDVirtualMachine   = "virtual-machine"
	IDScreenRecorders  = "screen-recorders"
	IDMacroTools       = "macro-tools"
	IDVPN              = "vpn"
	IDVirtualDisplays  = "virtual-displays"
	IDMultipleMonitors = "multiple-monitors"
	IDIdleInput        = "idle-input"
	IDScreenCapture    = "screen-capture"
)

// ListVMTools is the process list consulted by the virtualization detector.
const ListVMTools = "vm-tools"

// ErrUnknownDetector is returned when a requested detector id is not registered.
var ErrUnknownDetector = errors.New("unknown detector")

// DefaultOrder is the detector set and order of the aggregate monitor.
var DefaultOrder = []string{
	IDRemoteSession,
	IDRemoteTools,
	IDVirtualMachine,
	IDScreenRecorders,
	IDMacroTools,
	IDVPN,
	IDVirtualDisplays,
	IDMultipleMonitors,
	IDIdleInput,
}

// Deps carries everything a factory may need to build a detector.
type Deps struct {
	Host           platform.Host
	ProcessLists   map[string][]string
	DisplayMarkers []string
	IdleThreshold  time.Duration
	CaptureDisplay int
}

// Registry maps detector ids to constructors.
type Registry map[string]Factory

// Factory builds a detector instance.
type Factory func(deps Deps) Detector

// DefaultRegistry contains built-in detectors.
var DefaultRegistry = Registry{
	IDRemoteSession: func(deps Deps) Detector {
		return NewRemoteSessionDetector(deps.Host)
	},
	IDRemoteTools: func(deps Deps) Detector {
		return NewProcessListDetector(IDRemoteTools, "Remote Access Tools (AnyDesk/TeamViewer/VNC/etc.)",
			"No known remote access processes detected.", deps.ProcessLists[IDRemoteTools], deps.Host)
	},
	IDVirtualMachine: func(deps Deps) Detector {
		return NewVirtualMachineDetector(deps.Host, deps.Host, deps.ProcessLists[ListVMTools])
	},
	IDScreenRecorders: func(deps Deps) Detector {
		return NewProcessListDetector(IDScreenRecorders, "Screen Recording / Streaming Software",
			"No known screen recorders detected.", deps.ProcessLists[IDScreenRecorders], deps.Host)
	},
	IDMacroTools: func(deps Deps) Detector {
		return NewProcessListDetector(IDMacroTools, "Macro / Automation Tools (AutoHotkey, etc.)",
			"No common macro tools detected.", deps.ProcessLists[IDMacroTools], deps.Host)
	},
	IDVPN: func(deps Deps) Detector {
		return NewProcessListDetector(IDVPN, "VPN Software Running",
			"No common VPN processes detected.", deps.ProcessLists[IDVPN], deps.Host)
	},
	IDVirtualDisplays: func(deps Deps) Detector {
		return NewVirtualDisplayDetector(deps.Host, deps.DisplayMarkers)
	},
	IDMultipleMonitors: func(deps Deps) Detector {
		return NewMultiMonitorDetector(deps.Host)
	},
	IDIdleInput: func(deps Deps) Detector {
		return NewIdleInputDetector(deps.Host, deps.IdleThreshold)
	},
	IDScreenCapture: func(deps Deps) Detector {
		return NewScreenCaptureDetector(capture.NewProbe(deps.Host, deps.CaptureDisplay))
	},
}

// IDs returns the registered detector ids in sorted order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildDetectors instantiates detectors from the provided ids, keeping their
// order and skipping duplicates. The returned slice is the fixed registry of
// one monitor run.
func (r Registry) BuildDetectors(ids []string, deps Deps) ([]Detector, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if deps.Host == nil {
		return nil, errors.New("detector dependencies require a platform host")
	}

	var detectors []Detector
	seen := map[string]struct{}{}
	for _, id := range ids {
		factory, ok := r[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDetector, id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		detectors = append(detectors, factory(deps))
	}
	return detectors, nil
}
