// Package platform is the capability boundary between the detectors and the
// host operating system. Detectors only see the interfaces declared here;
// each supported OS provides a Host in a build-tagged file.
package platform

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnsupported is returned when a capability cannot be queried on this
	// platform or build.
	ErrUnsupported = errors.New("capability not supported on this platform")

	// ErrAccessDenied is returned by an OutputDuplicator when another client
	// already holds the exclusive duplication resource.
	ErrAccessDenied = errors.New("output duplication denied: resource held by another client")
)

// DisplayDevice is a single entry of the display adapter enumeration.
type DisplayDevice struct {
	Name        string
	Description string
}

// ProcessLister reads the live process table.
type ProcessLister interface {
	ProcessNames(ctx context.Context) ([]string, error)
}

// HypervisorProbe reports the CPU "running under hypervisor" capability flag.
type HypervisorProbe interface {
	HypervisorPresent() (bool, error)
}

// SessionProbe reports whether the interactive session is a remote one.
type SessionProbe interface {
	RemoteSession() (bool, error)
}

// DisplayEnumerator lists display devices and counts active outputs.
type DisplayEnumerator interface {
	DisplayDevices() ([]DisplayDevice, error)
	ActiveDisplayCount() (int, error)
}

// IdleClock reports the time elapsed since the last keyboard or mouse input.
type IdleClock interface {
	SinceLastInput() (time.Duration, error)
}

// OutputDuplicator tries to take the exclusive output-duplication resource for
// a display. On success the caller must invoke release exactly once.
type OutputDuplicator interface {
	AcquireDuplication(display int) (release func(), err error)
}

// Host bundles every capability a detector may need.
type Host interface {
	ProcessLister
	HypervisorProbe
	SessionProbe
	DisplayEnumerator
	IdleClock
	OutputDuplicator
}
