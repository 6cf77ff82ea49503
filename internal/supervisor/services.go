package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/example/examguard/internal/logging"
)

// MonitorService wraps the evaluation loop. Whenever the loop ends the whole
// tree is terminated. A cycle error is not retried: restarting would only
// repeat a failing presenter, so the error is kept for Err.
type MonitorService struct {
	name string
	run  func(ctx context.Context) error

	mu  sync.Mutex
	err error
}

// NewMonitorService wraps run as a supervised service.
func NewMonitorService(name string, run func(ctx context.Context) error) *MonitorService {
	return &MonitorService{name: name, run: run}
}

// Serve implements suture.Service.
func (m *MonitorService) Serve(ctx context.Context) error {
	if err := m.run(ctx); err != nil {
		m.mu.Lock()
		m.err = fmt.Errorf("%s: %w", m.name, err)
		m.mu.Unlock()
	}
	return suture.ErrTerminateSupervisorTree
}

// Err returns the error that ended the loop, or nil after a clean stop.
func (m *MonitorService) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *MonitorService) String() string {
	return m.name
}

// MetricsService serves an HTTP handler (the Prometheus endpoint) for the
// lifetime of the tree.
type MetricsService struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration

	mu    sync.Mutex
	bound string
}

// NewMetricsService creates the service; addr is a host:port listen address.
func NewMetricsService(addr string, handler http.Handler, shutdownTimeout time.Duration) *MetricsService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	return &MetricsService{addr: addr, handler: handler, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. A listen failure is reported once and the
// service is not restarted, since retrying a taken port only repeats the error.
func (s *MetricsService) Serve(ctx context.Context) error {
	log := logging.WithComponent("metrics")

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		log.Error().Err(err).Str("addr", s.addr).Msg("metrics endpoint disabled")
		return suture.ErrDoNotRestart
	}
	s.setBound(ln.Addr().String())
	defer s.setBound("")

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.handler)
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// Addr returns the bound listen address while the service is running, or "".
func (s *MetricsService) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

func (s *MetricsService) setBound(addr string) {
	s.mu.Lock()
	s.bound = addr
	s.mu.Unlock()
}

func (s *MetricsService) String() string {
	return "metrics-http"
}
