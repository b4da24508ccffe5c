package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

func TestRecommender_Observe(t *testing.T) {
	var r Recommender
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("similar", "ok"))

	r.ObserveRecommendation(recommend.PolicySimilar, recommend.OutcomeOK, 7, 3*time.Millisecond)

	after := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("similar", "ok"))
	if after-before != 1 {
		t.Errorf("recommendations_total delta = %f, want 1", after-before)
	}
	if testutil.CollectAndCount(RecommendationDuration) == 0 {
		t.Error("expected recommendation_duration_seconds observations")
	}
	if testutil.CollectAndCount(RecommendationResults) == 0 {
		t.Error("expected recommendation_results observations")
	}
}

func TestBreaker_StateChanged(t *testing.T) {
	var b Breaker

	b.BreakerStateChanged("test", "closed", "open")
	if got := testutil.ToFloat64(BreakerState.WithLabelValues("test")); got != 2 {
		t.Errorf("breaker_state = %f, want 2", got)
	}
	if got := testutil.ToFloat64(BreakerTransitionsTotal.WithLabelValues("test", "closed", "open")); got < 1 {
		t.Errorf("breaker_transitions_total = %f, want >= 1", got)
	}

	b.BreakerStateChanged("test", "open", "half-open")
	if got := testutil.ToFloat64(BreakerState.WithLabelValues("test")); got != 1 {
		t.Errorf("breaker_state = %f, want 1", got)
	}

	b.BreakerStateChanged("test", "half-open", "closed")
	if got := testutil.ToFloat64(BreakerState.WithLabelValues("test")); got != 0 {
		t.Errorf("breaker_state = %f, want 0", got)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	RegisterRecommendMetrics()
	RegisterRecommendMetrics()
	RegisterBreakerMetrics()
	RegisterBreakerMetrics()
}
