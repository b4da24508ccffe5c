package catalog

import (
	"context"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// Repository defines the storage contract for movies.
type Repository interface {
	Create(ctx context.Context, m movie.Movie) (movie.Movie, error)
	Update(ctx context.Context, m movie.Movie) error
	Get(ctx context.Context, id int64) (movie.Movie, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]movie.Movie, error)
	ByGenre(ctx context.Context, genre string) ([]movie.Movie, error)
	NewReleases(ctx context.Context, n int) ([]movie.Movie, error)
	Genres(ctx context.Context) ([]movie.GenreCount, error)
}

// PopularityReader counts recent activity per movie.
type PopularityReader interface {
	RecentCounts(ctx context.Context, movieID int64, since time.Time) (likes, views int64, err error)
}
