package movierec

import "github.com/kailas-cloud/movierec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMovieNotFound    = domain.ErrMovieNotFound
	ErrInvalidMovie     = domain.ErrInvalidMovie
	ErrInvalidUser      = domain.ErrInvalidUser
	ErrNotWatched       = domain.ErrNotWatched
	ErrStoreUnavailable = domain.ErrStoreUnavailable
)
