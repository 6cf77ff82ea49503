package monitor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// ErrQuitRequested is the cancellation cause set by WatchQuit.
var ErrQuitRequested = errors.New("quit requested")

// WatchQuit returns a context that is cancelled once poll reports true. poll
// is checked every interval, so the stop latency is bounded by interval. The
// returned cancel func must be called to release the watcher.
func WatchQuit(ctx context.Context, poll func() bool, every time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if poll() {
					cancel(ErrQuitRequested)
					return
				}
			}
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// QuitKey watches a line-oriented input (normally stdin) for a quit command:
// a line consisting of "q" or "quit", in any case. End of input does not
// count as quit, so a detached stdin never stops the monitor.
type QuitKey struct {
	pressed atomic.Bool
}

// NewQuitKey starts reading r in the background.
func NewQuitKey(r io.Reader) *QuitKey {
	k := &QuitKey{}
	go k.read(r)
	return k
}

// Pressed reports whether a quit line has been read. It is safe to poll from
// any goroutine.
func (k *QuitKey) Pressed() bool {
	return k.pressed.Load()
}

func (k *QuitKey) read(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "q", "quit":
			k.pressed.Store(true)
			return
		}
	}
}
