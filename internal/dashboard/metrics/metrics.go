package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for dashboard upstream fetches.
type Metrics struct {
	FetchLatency *prometheus.HistogramVec
	FetchOutcome *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "letwise_dashboard_fetch_duration_seconds",
			Help:    "Duration of dashboard upstream fetches by section",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"section"}), // cases, documents, stats

		FetchOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "letwise_dashboard_fetch_total",
			Help: "Dashboard upstream fetches by section and status",
		}, []string{"section", "status"}),
	}
}

// ObserveFetch records one section fetch.
func (m *Metrics) ObserveFetch(section, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchLatency.WithLabelValues(section).Observe(d.Seconds())
	m.FetchOutcome.WithLabelValues(section, status).Inc()
}
