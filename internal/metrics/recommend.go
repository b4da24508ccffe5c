package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

// Recommendation Prometheus metrics.
var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests by policy and outcome",
		},
		[]string{"policy", "outcome"},
	)

	RecommendationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent ranking the catalog",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"policy"},
	)

	RecommendationResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_results",
			Help:      "Number of movies returned per request",
			Buckets:   []float64{0, 1, 3, 5, 7, 10, 20, 50},
		},
		[]string{"policy"},
	)
)

var registerRecommendOnce sync.Once

// RegisterRecommendMetrics registers recommendation metrics. Safe to call more than once.
func RegisterRecommendMetrics() {
	registerRecommendOnce.Do(func() {
		prometheus.MustRegister(RecommendationsTotal)
		prometheus.MustRegister(RecommendationDuration)
		prometheus.MustRegister(RecommendationResults)
	})
}

// Recommender records recommend.Service outcomes.
type Recommender struct{}

// ObserveRecommendation implements recommend.Observer.
func (Recommender) ObserveRecommendation(
	policy recommend.Policy, outcome recommend.Outcome, results int, elapsed time.Duration,
) {
	p := string(policy)
	RecommendationsTotal.WithLabelValues(p, string(outcome)).Inc()
	RecommendationDuration.WithLabelValues(p).Observe(elapsed.Seconds())
	RecommendationResults.WithLabelValues(p).Observe(float64(results))
}
