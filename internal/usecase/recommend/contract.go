package recommend

import (
	"context"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// CatalogReader reads the movie catalog in catalog order.
type CatalogReader interface {
	All(ctx context.Context) ([]movie.Movie, error)
}

// HistoryReader reads the set of movies a user has watched.
type HistoryReader interface {
	WatchedIDs(ctx context.Context, userID string) (map[int64]struct{}, error)
}

// Observer receives one event per recommendation call.
type Observer interface {
	ObserveRecommendation(policy Policy, outcome Outcome, results int, elapsed time.Duration)
}
