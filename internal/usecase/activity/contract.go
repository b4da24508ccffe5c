package activity

import (
	"context"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// MovieStore reads movies and adjusts their counters.
type MovieStore interface {
	Get(ctx context.Context, id int64) (movie.Movie, error)
	AddViews(ctx context.Context, id, delta int64) error
	AddLikes(ctx context.Context, id, delta int64) error
}

// Repository defines the storage contract for user activity.
//
//nolint:interfacebloat // history, likes and list share one store
type Repository interface {
	RecentlyViewed(ctx context.Context, userID string, movieID int64) (bool, error)
	RecordView(ctx context.Context, userID string, movieID int64, ip string, at time.Time, window time.Duration) error
	HasWatched(ctx context.Context, userID string, movieID int64) (bool, error)
	History(ctx context.Context, userID string) ([]int64, error)
	IsLiked(ctx context.Context, userID string, movieID int64) (bool, error)
	SetLiked(ctx context.Context, userID string, movieID int64, liked bool, at time.Time) error
	InList(ctx context.Context, userID string, movieID int64) (bool, error)
	SetInList(ctx context.Context, userID string, movieID int64, in bool, at time.Time) error
	List(ctx context.Context, userID string) ([]int64, error)
}
