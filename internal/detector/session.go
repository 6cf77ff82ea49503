package detector

import (
	"context"

	"github.com/example/examguard/internal/platform"
)

// RemoteSessionDetector flags a remote desktop session.
type RemoteSessionDetector struct {
	session platform.SessionProbe
}

// NewRemoteSessionDetector builds the remote-session detector.
func NewRemoteSessionDetector(session platform.SessionProbe) *RemoteSessionDetector {
	return &RemoteSessionDetector{session: session}
}

// ID implements Detector.
func (d *RemoteSessionDetector) ID() string { return IDRemoteSession }

// Name implements Detector.
func (d *RemoteSessionDetector) Name() string { return "RDP (Remote Desktop Session)" }

// Evaluate implements Detector.
func (d *RemoteSessionDetector) Evaluate(ctx context.Context) (Result, error) {
	remote, err := d.session.RemoteSession()
	if err != nil {
		return degraded(d, err), nil
	}
	res := newResult(d)
	res.Risk = remote
	if remote {
		res.Detail = "Current session is a remote desktop session."
	} else {
		res.Detail = "Local console session."
	}
	return res, nil
}
