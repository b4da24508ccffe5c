package breaker

import (
	"context"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

type catalogReader interface {
	All(ctx context.Context) ([]movie.Movie, error)
}

type historyReader interface {
	WatchedIDs(ctx context.Context, userID string) (map[int64]struct{}, error)
}

// Catalog guards catalog reads.
type Catalog struct {
	next catalogReader
	b    *Breaker
}

// NewCatalog wraps next with b.
func NewCatalog(next catalogReader, b *Breaker) *Catalog {
	return &Catalog{next: next, b: b}
}

// All reads the full catalog through the breaker.
func (c *Catalog) All(ctx context.Context) ([]movie.Movie, error) {
	return execute(c.b, func() ([]movie.Movie, error) {
		return c.next.All(ctx)
	})
}

// History guards watch-history reads.
type History struct {
	next historyReader
	b    *Breaker
}

// NewHistory wraps next with b.
func NewHistory(next historyReader, b *Breaker) *History {
	return &History{next: next, b: b}
}

// WatchedIDs reads a user's watched set through the breaker.
func (h *History) WatchedIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	return execute(h.b, func() (map[int64]struct{}, error) {
		return h.next.WatchedIDs(ctx, userID)
	})
}
