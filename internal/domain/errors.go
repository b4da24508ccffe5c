package domain

import "errors"

var (
	// ErrMovieNotFound signals a missing movie.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrInvalidMovie signals invalid movie input.
	ErrInvalidMovie = errors.New("invalid movie")
	// ErrInvalidUser signals an empty or malformed user identifier.
	ErrInvalidUser = errors.New("invalid user")
	// ErrNotWatched signals a like attempt on a movie the user never watched.
	ErrNotWatched = errors.New("movie not watched")
	// ErrStoreUnavailable signals that the storage backend is failing fast.
	ErrStoreUnavailable = errors.New("store unavailable")
)
