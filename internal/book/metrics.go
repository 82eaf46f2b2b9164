package book

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts write outcomes. A nil *Metrics records nothing.
type Metrics struct {
	writes *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "books_write_outcomes_total",
			Help: "Book write operations, by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.writes)
	return m
}

func (m *Metrics) observeWrite(operation, outcome string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(operation, outcome).Inc()
}
