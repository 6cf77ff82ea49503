//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var remoteSessionEnv = []string{"SSH_CONNECTION", "SSH_CLIENT", "SSH_TTY", "XRDP_SESSION"}

// LinuxHost reads displays from DRM connectors in sysfs and remote-session
// hints from the environment.
type LinuxHost struct {
	processTable
	cpuFlags
	noDuplication

	drmRoot string
	getenv  func(string) string
}

// NewHost returns the capability set for Linux.
func NewHost() Host {
	return &LinuxHost{drmRoot: "/sys/class/drm", getenv: os.Getenv}
}

// RemoteSession implements SessionProbe.
func (h *LinuxHost) RemoteSession() (bool, error) {
	for _, key := range remoteSessionEnv {
		if h.getenv(key) != "" {
			return true, nil
		}
	}
	return false, nil
}

type connector struct {
	name   string
	status string
}

func (h *LinuxHost) connectors() ([]connector, error) {
	paths, err := filepath.Glob(filepath.Join(h.drmRoot, "card*-*"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if _, statErr := os.Stat(h.drmRoot); statErr != nil {
			return nil, fmt.Errorf("display enumeration via %s: %w", h.drmRoot, ErrUnsupported)
		}
	}
	sort.Strings(paths)

	out := make([]connector, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(p, "status"))
		if err != nil {
			continue
		}
		// Connector names look like card0-HDMI-A-1; drop the card prefix.
		name := filepath.Base(p)
		if idx := strings.Index(name, "-"); idx >= 0 {
			name = name[idx+1:]
		}
		out = append(out, connector{name: name, status: strings.TrimSpace(string(data))})
	}
	return out, nil
}

// DisplayDevices implements DisplayEnumerator.
func (h *LinuxHost) DisplayDevices() ([]DisplayDevice, error) {
	conns, err := h.connectors()
	if err != nil {
		return nil, err
	}
	devices := make([]DisplayDevice, 0, len(conns))
	for _, c := range conns {
		devices = append(devices, DisplayDevice{Name: c.name, Description: c.name})
	}
	return devices, nil
}

// ActiveDisplayCount implements DisplayEnumerator.
func (h *LinuxHost) ActiveDisplayCount() (int, error) {
	conns, err := h.connectors()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, c := range conns {
		if c.status == "connected" {
			count++
		}
	}
	return count, nil
}

// SinceLastInput implements IdleClock. There is no display-server independent
// idle counter on Linux.
func (h *LinuxHost) SinceLastInput() (time.Duration, error) {
	return 0, fmt.Errorf("input idle time: %w", ErrUnsupported)
}
