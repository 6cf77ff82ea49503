// Package supervisor runs the long-lived parts of a monitor session (the
// evaluation loop and the optional metrics endpoint) under a suture tree, so
// a crashing metrics server is restarted without touching the monitor, and
// the end of the monitor loop shuts everything down.
package supervisor

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/example/examguard/internal/logging"
)

// TreeConfig holds the restart policy of the tree.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	FailureThreshold float64
	// FailureDecay is the rate at which failures decay, in seconds.
	FailureDecay float64
	// FailureBackoff is the pause once the threshold is exceeded.
	FailureBackoff time.Duration
	// ShutdownTimeout bounds how long a service may take to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the restart policy used by the CLI.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  5 * time.Second,
	}
}

// Tree is the root supervisor of a monitor session.
type Tree struct {
	root *suture.Supervisor
}

// NewTree builds an empty tree. Zero fields of cfg take their defaults.
func NewTree(cfg TreeConfig) *Tree {
	def := DefaultTreeConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	log := logging.WithComponent("supervisor")
	root := suture.New("examguard", suture.Spec{
		EventHook:        eventHook(log),
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	})
	return &Tree{root: root}
}

// Add registers a service.
func (t *Tree) Add(svc suture.Service) suture.ServiceToken {
	return t.root.Add(svc)
}

// Serve runs the tree until ctx is cancelled or a service terminates it. Both
// are normal ends of a session and yield nil.
func (t *Tree) Serve(ctx context.Context) error {
	err := t.root.Serve(ctx)
	switch {
	case err == nil,
		errors.Is(err, suture.ErrTerminateSupervisorTree),
		errors.Is(err, context.Canceled):
		return nil
	default:
		return err
	}
}

func eventHook(log zerolog.Logger) suture.EventHook {
	return func(e suture.Event) {
		var evt *zerolog.Event
		switch e.Type() {
		case suture.EventTypeServicePanic:
			evt = log.Error()
		case suture.EventTypeServiceTerminate, suture.EventTypeStopTimeout:
			evt = log.Warn()
		default:
			evt = log.Info()
		}
		evt.Fields(e.Map()).Msg(e.String())
	}
}
