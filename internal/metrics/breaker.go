package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Circuit breaker Prometheus metrics.
var (
	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	BreakerTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

var registerBreakerOnce sync.Once

// RegisterBreakerMetrics registers circuit breaker metrics. Safe to call more than once.
func RegisterBreakerMetrics() {
	registerBreakerOnce.Do(func() {
		prometheus.MustRegister(BreakerState)
		prometheus.MustRegister(BreakerTransitionsTotal)
	})
}

// Breaker records circuit breaker transitions.
type Breaker struct{}

// BreakerStateChanged implements breaker.StateObserver.
func (Breaker) BreakerStateChanged(name, from, to string) {
	BreakerTransitionsTotal.WithLabelValues(name, from, to).Inc()
	BreakerState.WithLabelValues(name).Set(stateValue(to))
}

func stateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}
