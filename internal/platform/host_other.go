//go:build !windows && !linux

package platform

import (
	"fmt"
	"runtime"
	"time"
)

// GenericHost only offers the portable capabilities.
type GenericHost struct {
	processTable
	cpuFlags
	noDuplication
}

// NewHost returns the capability set for platforms without native probes.
func NewHost() Host {
	return &GenericHost{}
}

func unsupported(what string) error {
	return fmt.Errorf("%s on %s: %w", what, runtime.GOOS, ErrUnsupported)
}

// RemoteSession implements SessionProbe.
func (h *GenericHost) RemoteSession() (bool, error) {
	return false, unsupported("remote session query")
}

// DisplayDevices implements DisplayEnumerator.
func (h *GenericHost) DisplayDevices() ([]DisplayDevice, error) {
	return nil, unsupported("display enumeration")
}

// ActiveDisplayCount implements DisplayEnumerator.
func (h *GenericHost) ActiveDisplayCount() (int, error) {
	return 0, unsupported("display count")
}

// SinceLastInput implements IdleClock.
func (h *GenericHost) SinceLastInput() (time.Duration, error) {
	return 0, unsupported("input idle time")
}
