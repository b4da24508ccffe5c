// Package activity records what users watch, like and keep on their list.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// DefaultViewDedupe is the window in which repeated watches count once.
const DefaultViewDedupe = 24 * time.Hour

// Status is the per-user state of one movie.
type Status struct {
	Watched bool
	Liked   bool
	InList  bool
}

// Service handles watch tracking, likes and personal lists.
type Service struct {
	movies MovieStore
	repo   Repository
	now    func() time.Time
	dedupe time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithViewDedupe sets the repeated-watch window.
func WithViewDedupe(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.dedupe = d
		}
	}
}

// New creates an activity service.
func New(movies MovieStore, repo Repository, opts ...Option) *Service {
	s := &Service{movies: movies, repo: repo, now: time.Now, dedupe: DefaultViewDedupe}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RecordWatch registers that userID watched movieID from ip. Repeated
// watches inside the dedupe window are ignored; recorded reports whether
// this call counted.
func (s *Service) RecordWatch(ctx context.Context, userID string, movieID int64, ip string) (bool, error) {
	if err := checkUser(userID); err != nil {
		return false, err
	}
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		return false, fmt.Errorf("get movie: %w", err)
	}

	recent, err := s.repo.RecentlyViewed(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check recent view: %w", err)
	}
	if recent {
		return false, nil
	}

	if err := s.repo.RecordView(ctx, userID, movieID, ip, s.now(), s.dedupe); err != nil {
		return false, fmt.Errorf("record view: %w", err)
	}
	if err := s.movies.AddViews(ctx, movieID, 1); err != nil {
		return false, fmt.Errorf("count view: %w", err)
	}
	return true, nil
}

// ToggleLike flips the like of a watched movie and returns the new state.
func (s *Service) ToggleLike(ctx context.Context, userID string, movieID int64) (bool, error) {
	if err := checkUser(userID); err != nil {
		return false, err
	}
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		return false, fmt.Errorf("get movie: %w", err)
	}

	watched, err := s.repo.HasWatched(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check history: %w", err)
	}
	if !watched {
		return false, domain.ErrNotWatched
	}

	liked, err := s.repo.IsLiked(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	next := !liked
	if err := s.repo.SetLiked(ctx, userID, movieID, next, s.now()); err != nil {
		return false, fmt.Errorf("set like: %w", err)
	}

	delta := int64(1)
	if !next {
		delta = -1
	}
	if err := s.movies.AddLikes(ctx, movieID, delta); err != nil {
		return false, fmt.Errorf("count like: %w", err)
	}
	return next, nil
}

// ToggleMyList flips list membership and returns the new state.
func (s *Service) ToggleMyList(ctx context.Context, userID string, movieID int64) (bool, error) {
	if err := checkUser(userID); err != nil {
		return false, err
	}
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		return false, fmt.Errorf("get movie: %w", err)
	}

	in, err := s.repo.InList(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("check list: %w", err)
	}
	if err := s.repo.SetInList(ctx, userID, movieID, !in, s.now()); err != nil {
		return false, fmt.Errorf("set list: %w", err)
	}
	return !in, nil
}

// WatchHistory returns watched movies, most recent first.
func (s *Service) WatchHistory(ctx context.Context, userID string) ([]movie.Movie, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	ids, err := s.repo.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("watch history: %w", err)
	}
	return s.resolve(ctx, ids)
}

// MyList returns listed movies, most recently added first.
func (s *Service) MyList(ctx context.Context, userID string) ([]movie.Movie, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	ids, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("my list: %w", err)
	}
	return s.resolve(ctx, ids)
}

// Status reports watched, liked and listed flags of one movie for a user.
func (s *Service) Status(ctx context.Context, userID string, movieID int64) (Status, error) {
	if err := checkUser(userID); err != nil {
		return Status{}, err
	}
	var st Status
	var err error
	if st.Watched, err = s.repo.HasWatched(ctx, userID, movieID); err != nil {
		return Status{}, fmt.Errorf("check history: %w", err)
	}
	if st.Liked, err = s.repo.IsLiked(ctx, userID, movieID); err != nil {
		return Status{}, fmt.Errorf("check like: %w", err)
	}
	if st.InList, err = s.repo.InList(ctx, userID, movieID); err != nil {
		return Status{}, fmt.Errorf("check list: %w", err)
	}
	return st, nil
}

// resolve loads movies by id, skipping ones deleted since.
func (s *Service) resolve(ctx context.Context, ids []int64) ([]movie.Movie, error) {
	out := make([]movie.Movie, 0, len(ids))
	for _, id := range ids {
		m, err := s.movies.Get(ctx, id)
		if errors.Is(err, domain.ErrMovieNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get movie %d: %w", id, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func checkUser(userID string) error {
	return domain.CheckUserID(userID)
}
