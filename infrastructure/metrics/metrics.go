// Package metrics provides the Prometheus collectors for QR rendering and bulk runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RenderLatencyBuckets are latency buckets for a single QR render
var RenderLatencyBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	// RendersTotal counts renders by format and outcome
	RendersTotal *prometheus.CounterVec

	// RenderLatency tracks time spent drawing one QR code
	RenderLatency *prometheus.HistogramVec

	// BulkRowsTotal counts bulk rows by outcome (archived, skipped)
	BulkRowsTotal *prometheus.CounterVec

	// BulkRunsTotal counts finished bulk runs by terminal status
	BulkRunsTotal *prometheus.CounterVec

	// BulkRunning is 1 while a bulk run is in progress
	BulkRunning prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		RendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qr_renders_total",
				Help: "QR codes rendered, by format and result",
			},
			[]string{"format", "result"},
		),
		RenderLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qr_render_duration_seconds",
				Help:    "Time spent rendering a single QR code",
				Buckets: RenderLatencyBuckets,
			},
			[]string{"format"},
		),
		BulkRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qr_bulk_rows_total",
				Help: "Bulk rows processed, by result",
			},
			[]string{"result"},
		),
		BulkRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qr_bulk_runs_total",
				Help: "Finished bulk runs, by terminal status",
			},
			[]string{"status"},
		),
		BulkRunning: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "qr_bulk_running",
				Help: "1 while a bulk run is in progress",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RendersTotal,
		m.RenderLatency,
		m.BulkRowsTotal,
		m.BulkRunsTotal,
		m.BulkRunning,
	)
	return m
}

// Handler returns the /metrics handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRender records one render attempt. Safe on a nil receiver.
func (m *Metrics) ObserveRender(format string, seconds float64, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RendersTotal.WithLabelValues(format, result).Inc()
	m.RenderLatency.WithLabelValues(format).Observe(seconds)
}

// ObserveBulkRow records the outcome of one bulk row. Safe on a nil receiver.
func (m *Metrics) ObserveBulkRow(result string) {
	if m == nil {
		return
	}
	m.BulkRowsTotal.WithLabelValues(result).Inc()
}

// BulkStarted marks a run as in progress. Safe on a nil receiver.
func (m *Metrics) BulkStarted() {
	if m == nil {
		return
	}
	m.BulkRunning.Set(1)
}

// BulkFinished records a run's terminal status. Safe on a nil receiver.
func (m *Metrics) BulkFinished(status string) {
	if m == nil {
		return
	}
	m.BulkRunning.Set(0)
	m.BulkRunsTotal.WithLabelValues(status).Inc()
}
