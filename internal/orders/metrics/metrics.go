package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for session-to-order lookups.
type Metrics struct {
	Lookups *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "letwise_order_lookups_total",
			Help: "Session-to-order lookups by outcome",
		}, []string{"status"}), // found_paid, found_unpaid, not_found, error
	}
}

// IncrementLookup records a lookup outcome.
func (m *Metrics) IncrementLookup(status string) {
	if m != nil {
		m.Lookups.WithLabelValues(status).Inc()
	}
}
