package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion outcomes recorded by Metrics.
const (
	OutcomeOK         = "ok"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
	OutcomeNoEmphasis = "no_emphasis"
)

const (
	metricsNamespace    = "docx2html"
	conversionSubsystem = "conversion"
)

// Metrics holds the collectors of one server on a private registry, so
// several servers (and tests) never collide on the default registry.
type Metrics struct {
	registry *prometheus.Registry

	conversions *prometheus.CounterVec
	duration    prometheus.Histogram
	paragraphs  prometheus.Histogram
	copies      *prometheus.CounterVec
	exports     *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: conversionSubsystem,
			Name:      "total",
			Help:      "Uploads processed, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: conversionSubsystem,
			Name:      "duration_seconds",
			Help:      "Time spent converting an upload.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		paragraphs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: conversionSubsystem,
			Name:      "paragraphs",
			Help:      "Bold-anchored paragraphs per converted document.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "clipboard_copies_total",
			Help:      "Clipboard copies, by the format that was written.",
		}, []string{"mode"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "exports_total",
			Help:      "File downloads, by format.",
		}, []string{"format"}),
	}

	m.registry.MustRegister(
		m.conversions,
		m.duration,
		m.paragraphs,
		m.copies,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and embedding.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveConversion records one upload outcome. Duration and paragraph
// count are only recorded for conversions that ran.
func (m *Metrics) ObserveConversion(outcome string, elapsed time.Duration, paragraphs int) {
	m.conversions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeRejected {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	if outcome != OutcomeFailed {
		m.paragraphs.Observe(float64(paragraphs))
	}
}

// ObserveCopy records a clipboard copy by mode name.
func (m *Metrics) ObserveCopy(mode string) {
	m.copies.WithLabelValues(mode).Inc()
}

// ObserveExport records a download by format.
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}
