// Package metrics holds the Prometheus collectors for renders and sweeps.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Render outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeRenderFailed = "render_failed"
	OutcomeStoreFailed  = "store_failed"
)

// Metrics owns a private registry so tests and multiple servers do not
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	imagesSwept    prometheus.Counter
	sweepErrors    prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chartsrv",
			Name:      "renders_total",
			Help:      "Render requests by chart kind and outcome.",
		}, []string{"kind", "outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chartsrv",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering and storing a chart.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		imagesSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chartsrv",
			Name:      "images_swept_total",
			Help:      "Images deleted by the cleanup sweeper.",
		}),
		sweepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chartsrv",
			Name:      "sweep_errors_total",
			Help:      "Sweep iterations or files that failed.",
		}),
	}

	m.registry.MustRegister(
		m.renders,
		m.renderDuration,
		m.imagesSwept,
		m.sweepErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRender records one render attempt. kind must already be bounded
// (see chart.MetricKind).
func (m *Metrics) ObserveRender(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(kind, outcome).Inc()
	if outcome == OutcomeSuccess {
		m.renderDuration.Observe(elapsed.Seconds())
	}
}

// AddSwept counts images removed by a sweep.
func (m *Metrics) AddSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.imagesSwept.Add(float64(n))
}

// IncSweepErrors counts a failed file or listing.
func (m *Metrics) IncSweepErrors() {
	if m == nil {
		return
	}
	m.sweepErrors.Inc()
}

// Registry is the private registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
