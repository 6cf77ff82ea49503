// Package platformtest provides a scriptable platform.Host for tests.
package platformtest

import (
	"context"
	"sync"
	"time"

	"github.com/example/examguard/internal/platform"
)

// Host is an in-memory platform.Host. Each capability returns the configured
// value, or the configured error when it is non-nil.
type Host struct {
	Processes    []string
	ProcessesErr error

	Hypervisor    bool
	HypervisorErr error

	Remote    bool
	RemoteErr error

	Displays    []platform.DisplayDevice
	DisplaysErr error

	ActiveDisplays    int
	ActiveDisplaysErr error

	Idle    time.Duration
	IdleErr error

	DuplicationErr error

	mu           sync.Mutex
	acquired     int
	released     int
	processCalls int
}

var _ platform.Host = (*Host)(nil)

// ProcessNames implements platform.ProcessLister.
func (h *Host) ProcessNames(ctx context.Context) ([]string, error) {
	h.mu.Lock()
	h.processCalls++
	h.mu.Unlock()
	if h.ProcessesErr != nil {
		return nil, h.ProcessesErr
	}
	return append([]string(nil), h.Processes...), nil
}

// HypervisorPresent implements platform.HypervisorProbe.
func (h *Host) HypervisorPresent() (bool, error) {
	return h.Hypervisor, h.HypervisorErr
}

// RemoteSession implements platform.SessionProbe.
func (h *Host) RemoteSession() (bool, error) {
	return h.Remote, h.RemoteErr
}

// DisplayDevices implements platform.DisplayEnumerator.
func (h *Host) DisplayDevices() ([]platform.DisplayDevice, error) {
	if h.DisplaysErr != nil {
		return nil, h.DisplaysErr
	}
	return h.Displays, nil
}

// ActiveDisplayCount implements platform.DisplayEnumerator.
func (h *Host) ActiveDisplayCount() (int, error) {
	return h.ActiveDisplays, h.ActiveDisplaysErr
}

// SinceLastInput implements platform.IdleClock.
func (h *Host) SinceLastInput() (time.Duration, error) {
	return h.Idle, h.IdleErr
}

// AcquireDuplication implements platform.OutputDuplicator and counts
// acquisitions and releases.
func (h *Host) AcquireDuplication(display int) (func(), error) {
	if h.DuplicationErr != nil {
		return nil, h.DuplicationErr
	}
	h.mu.Lock()
	h.acquired++
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		h.released++
		h.mu.Unlock()
	}, nil
}

// Duplications returns how many duplication resources were acquired and
// released so far.
func (h *Host) Duplications() (acquired, released int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.acquired, h.released
}

// ProcessCalls returns how many times the process table was read.
func (h *Host) ProcessCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.processCalls
}
