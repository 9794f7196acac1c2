package greeting

import "github.com/prometheus/client_golang/prometheus"

// Greeting request outcomes.
const (
	OutcomeCacheHit  = "cache_hit"
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
)

// Metrics counts greeting requests by outcome. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics creates the greeting counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "festival",
			Subsystem: "greeting",
			Name:      "requests_total",
			Help:      "Greeting requests by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests)
	}
	return m
}

func (m *Metrics) record(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}
