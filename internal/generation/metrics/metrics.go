package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for evaluation and document generation.
type Metrics struct {
	Classifications   *prometheus.CounterVec
	DocumentsRendered *prometheus.CounterVec
	Failures          *prometheus.CounterVec
	GenerateLatency   *prometheus.HistogramVec
	DocumentPages     prometheus.Histogram
}

// New creates a new Metrics instance with all generation metrics registered.
func New() *Metrics {
	return &Metrics{
		Classifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "letwise_classifications_total",
			Help: "Rule evaluations by rule set and resolved tier",
		}, []string{"rule_set", "tier"}),

		DocumentsRendered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "letwise_documents_rendered_total",
			Help: "Documents produced by kind, mode and format",
		}, []string{"kind", "mode", "format"}),

		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "letwise_generation_failures_total",
			Help: "Aborted generations by pipeline stage",
		}, []string{"stage"}), // render, assemble

		GenerateLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "letwise_generate_duration_seconds",
			Help:    "Duration of document generation from facts to bytes",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"format"}),

		DocumentPages: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "letwise_document_pages",
			Help:    "Pages per generated document",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		}),
	}
}

// IncrementClassification records one evaluation outcome.
func (m *Metrics) IncrementClassification(ruleSet, tier string) {
	if m != nil {
		m.Classifications.WithLabelValues(ruleSet, tier).Inc()
	}
}

// ObserveDocument records a finished document.
func (m *Metrics) ObserveDocument(kind, mode, format string, pages int, d time.Duration) {
	if m == nil {
		return
	}
	m.DocumentsRendered.WithLabelValues(kind, mode, format).Inc()
	m.DocumentPages.Observe(float64(pages))
	m.GenerateLatency.WithLabelValues(format).Observe(d.Seconds())
}

// IncrementFailure records an aborted generation.
func (m *Metrics) IncrementFailure(stage string) {
	if m != nil {
		m.Failures.WithLabelValues(stage).Inc()
	}
}
