package monitor

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsImmediatelyAndRespectsMaxCycles(t *testing.T) {
	var calls atomic.Int32
	s := Scheduler{
		Interval:  5 * time.Millisecond,
		MaxCycles: 3,
		Cycle: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSchedulerSingleCycleNeedsNoInterval(t *testing.T) {
	var calls int
	s := Scheduler{MaxCycles: 1, Cycle: func(context.Context) error {
		calls++
		return nil
	}}

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestSchedulerValidation(t *testing.T) {
	assert.Error(t, Scheduler{Interval: time.Second}.Run(context.Background()))
	assert.Error(t, Scheduler{Cycle: func(context.Context) error { return nil }}.Run(context.Background()))
}

func TestSchedulerCancelDuringWaitStopsPromptly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{}, 10)
	var calls atomic.Int32
	s := Scheduler{
		Interval: time.Hour,
		Cycle: func(context.Context) error {
			calls.Add(1)
			started <- struct{}{}
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-started
	cancelledAt := time.Now()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.Less(t, time.Since(cancelledAt), 500*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	assert.Equal(t, int32(1), calls.Load(), "no cycle may start after cancellation")
}

func TestSchedulerCycleIsNotInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var sawCancel atomic.Bool
	s := Scheduler{
		Interval: time.Hour,
		Cycle: func(cycleCtx context.Context) error {
			cancel()
			time.Sleep(10 * time.Millisecond)
			sawCancel.Store(cycleCtx.Err() != nil)
			return nil
		},
	}

	require.NoError(t, s.Run(ctx))
	assert.False(t, sawCancel.Load(), "a running cycle must not observe cancellation")
}

func TestSchedulerAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := Scheduler{Interval: time.Millisecond, Cycle: func(context.Context) error {
		t.Fatal("cycle must not run on a cancelled context")
		return nil
	}}
	require.NoError(t, s.Run(ctx))
}

func TestSchedulerPropagatesCycleError(t *testing.T) {
	boom := errors.New("presenter closed")
	s := Scheduler{Interval: time.Millisecond, Cycle: func(context.Context) error { return boom }}

	assert.ErrorIs(t, s.Run(context.Background()), boom)
}

func TestWatchQuitCancelsWithinPollInterval(t *testing.T) {
	var flag atomic.Bool
	ctx, cancel := WatchQuit(context.Background(), flag.Load, 10*time.Millisecond)
	defer cancel()

	flag.Store(true)
	select {
	case <-ctx.Done():
		assert.ErrorIs(t, context.Cause(ctx), ErrQuitRequested)
	case <-time.After(time.Second):
		t.Fatal("quit flag was not observed")
	}
}

func TestWatchQuitReleasedByCancel(t *testing.T) {
	ctx, cancel := WatchQuit(context.Background(), func() bool { return false }, time.Millisecond)
	cancel()

	<-ctx.Done()
	assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
}

func TestQuitKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "q", input: "q\n", want: true},
		{name: "uppercase quit", input: "  QUIT \n", want: true},
		{name: "other lines first", input: "hello\nqq\nQ\n", want: true},
		{name: "eof is not quit", input: "", want: false},
		{name: "no quit line", input: "status\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, w := io.Pipe()
			k := NewQuitKey(r)

			go func() {
				_, _ = io.Copy(w, strings.NewReader(tt.input))
				_ = w.Close()
			}()

			if tt.want {
				assert.Eventually(t, k.Pressed, time.Second, 5*time.Millisecond)
				return
			}
			time.Sleep(20 * time.Millisecond)
			assert.False(t, k.Pressed())
		})
	}
}

func TestSchedulerWithQuitKey(t *testing.T) {
	r, w := io.Pipe()
	k := NewQuitKey(r)
	ctx, cancel := WatchQuit(context.Background(), k.Pressed, 5*time.Millisecond)
	defer cancel()

	var calls atomic.Int32
	s := Scheduler{Interval: time.Hour, Cycle: func(context.Context) error {
		if calls.Add(1) == 1 {
			go func() { _, _ = io.WriteString(w, "q\n") }()
		}
		return nil
	}}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("quit key did not stop the scheduler")
	}
	assert.Equal(t, int32(1), calls.Load())
}
