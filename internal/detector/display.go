package detector

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/examguard/internal/platform"
)

// VirtualDisplayDetector flags display devices whose description carries a
// virtual, remote or mirror driver marker.
type VirtualDisplayDetector struct {
	displays platform.DisplayEnumerator
	markers  []string
}

// NewVirtualDisplayDetector builds the virtual-display detector. Markers are
// matched as case-sensitive substrings of the device description.
func NewVirtualDisplayDetector(displays platform.DisplayEnumerator, markers []string) *VirtualDisplayDetector {
	return &VirtualDisplayDetector{displays: displays, markers: append([]string(nil), markers...)}
}

// ID implements Detector.
func (d *VirtualDisplayDetector) ID() string { return IDVirtualDisplays }

// Name implements Detector.
func (d *VirtualDisplayDetector) Name() string { return "Virtual / Remote / Mirror Display Drivers" }

// Evaluate implements Detector.
func (d *VirtualDisplayDetector) Evaluate(ctx context.Context) (Result, error) {
	devices, err := d.displays.DisplayDevices()
	if err != nil {
		return degraded(d, err), nil
	}

	res := newResult(d)
	for _, dev := range devices {
		for _, marker := range d.markers {
			if marker != "" && strings.Contains(dev.Description, marker) {
				res.Risk = true
				res.Detail = fmt.Sprintf("Detected virtual or mirror display device: %s", dev.Description)
				return res, nil
			}
		}
	}
	res.Detail = "Only physical displays detected."
	return res, nil
}

// MultiMonitorDetector flags more than one active display output.
type MultiMonitorDetector struct {
	displays platform.DisplayEnumerator
}

// NewMultiMonitorDetector builds the multiple-monitor detector.
func NewMultiMonitorDetector(displays platform.DisplayEnumerator) *MultiMonitorDetector {
	return &MultiMonitorDetector{displays: displays}
}

// ID implements Detector.
func (d *MultiMonitorDetector) ID() string { return IDMultipleMonitors }

// Name implements Detector.
func (d *MultiMonitorDetector) Name() string { return "Multiple Monitors Connected" }

// Evaluate implements Detector.
func (d *MultiMonitorDetector) Evaluate(ctx context.Context) (Result, error) {
	count, err := d.displays.ActiveDisplayCount()
	if err != nil {
		return degraded(d, err), nil
	}
	res := newResult(d)
	res.Risk = count > 1
	if res.Risk {
		res.Detail = fmt.Sprintf("Active monitors: %d", count)
	} else {
		res.Detail = "Single monitor in use."
	}
	return res, nil
}
