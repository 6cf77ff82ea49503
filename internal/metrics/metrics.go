// Package metrics exposes Prometheus instrumentation for monitor runs.
//
// Metrics:
//   - examguard_cycles_total{verdict}: completed cycles by overall verdict
//   - examguard_cycle_duration_seconds: wall time of one evaluation cycle
//   - examguard_overall_risk: verdict of the latest cycle (1 = risk)
//   - examguard_detector_risk{detector}: latest risk flag per detector
//   - examguard_detector_degraded_total{detector}: evaluations without coverage
//   - examguard_detector_duration_seconds{detector}: per-detector latency
//   - examguard_capture_probes_total{status}: capture probe outcomes
//   - examguard_screen_captured{display}: latest capture state (1 = captured)
//
// Collectors are registered on a private registry so several monitors can
// live in one process (and in tests) without colliding.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/examguard/internal/capture"
	"github.com/example/examguard/internal/detector"
)

// Collector records cycle and capture measurements. It implements
// detector.Observer.
type Collector struct {
	registry *prometheus.Registry

	CyclesTotal      *prometheus.CounterVec
	CycleDuration    prometheus.Histogram
	OverallRisk      prometheus.Gauge
	LastCycle        prometheus.Gauge
	DetectorRisk     *prometheus.GaugeVec
	DetectorDegraded *prometheus.CounterVec
	DetectorDuration *prometheus.HistogramVec
	CaptureProbes    *prometheus.CounterVec
	ScreenCaptured   *prometheus.GaugeVec
}

var _ detector.Observer = (*Collector)(nil)

// New creates a collector with its own registry, including the Go runtime and
// process collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		CyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examguard_cycles_total",
				Help: "Total number of completed evaluation cycles by overall verdict",
			},
			[]string{"verdict"},
		),
		CycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "examguard_cycle_duration_seconds",
				Help:    "Duration of evaluation cycles in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		OverallRisk: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "examguard_overall_risk",
				Help: "Overall verdict of the latest cycle (1 = risk detected)",
			},
		),
		LastCycle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "examguard_last_cycle_timestamp_seconds",
				Help: "Unix time at which the latest cycle started",
			},
		),
		DetectorRisk: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "examguard_detector_risk",
				Help: "Latest risk flag per detector (1 = risk)",
			},
			[]string{"detector"},
		),
		DetectorDegraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examguard_detector_degraded_total",
				Help: "Total number of detector evaluations that ran without coverage",
			},
			[]string{"detector"},
		),
		DetectorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "examguard_detector_duration_seconds",
				Help:    "Duration of single detector evaluations in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"detector"},
		),
		CaptureProbes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "examguard_capture_probes_total",
				Help: "Total number of capture probes by outcome",
			},
			[]string{"status"},
		),
		ScreenCaptured: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "examguard_screen_captured",
				Help: "Latest capture state per display (1 = captured)",
			},
			[]string{"display"},
		),
	}
}

// ObserveResult records one detector evaluation.
func (c *Collector) ObserveResult(res detector.Result, took time.Duration) {
	c.DetectorRisk.WithLabelValues(res.ID).Set(boolValue(res.Risk))
	c.DetectorDuration.WithLabelValues(res.ID).Observe(took.Seconds())
	if res.Degraded {
		c.DetectorDegraded.WithLabelValues(res.ID).Inc()
	}
}

// ObserveReport records a completed cycle.
func (c *Collector) ObserveReport(rep detector.Report) {
	verdict := "clean"
	if rep.OverallRisk {
		verdict = "risk"
	}
	c.CyclesTotal.WithLabelValues(verdict).Inc()
	c.CycleDuration.Observe(rep.Duration.Seconds())
	c.OverallRisk.Set(boolValue(rep.OverallRisk))
	if !rep.StartedAt.IsZero() {
		c.LastCycle.Set(float64(rep.StartedAt.Unix()))
	}
}

// ObserveCapture records one capture probe reading.
func (c *Collector) ObserveCapture(r capture.Reading) {
	c.CaptureProbes.WithLabelValues(r.Status.String()).Inc()
	if r.Status != capture.Unknown {
		c.ScreenCaptured.WithLabelValues(strconv.Itoa(r.Display)).Set(boolValue(r.Captured()))
	}
}

// Handler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
