package catalog

import (
	"cmp"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// Defaults for catalog listings.
const (
	DefaultNewReleases   = 14
	DefaultPopularWindow = 7 * 24 * time.Hour
)

var searchToken = regexp.MustCompile(`\w+`)

// Popular is a movie with its popularity over the recent window.
type Popular struct {
	Movie       movie.Movie
	Score       float64
	RecentLikes int64
	RecentViews int64
}

// Service handles movie CRUD, browsing and search.
type Service struct {
	repo          Repository
	popularity    PopularityReader
	now           func() time.Time
	newReleases   int
	popularWindow time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNewReleases sets the default size of the new releases listing.
func WithNewReleases(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.newReleases = n
		}
	}
}

// WithPopularWindow sets the window popularity is computed over.
func WithPopularWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.popularWindow = d
		}
	}
}

// New creates a catalog service.
func New(repo Repository, popularity PopularityReader, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		popularity:    popularity,
		now:           time.Now,
		newReleases:   DefaultNewReleases,
		popularWindow: DefaultPopularWindow,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create validates input, builds tags and stores a new movie.
func (s *Service) Create(ctx context.Context, in movie.Input) (movie.Movie, error) {
	m, err := movie.New(in, s.now().UTC())
	if err != nil {
		return movie.Movie{}, fmt.Errorf("validate movie: %w: %w", domain.ErrInvalidMovie, err)
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("create movie: %w", err)
	}
	return created, nil
}

// Update replaces the editable fields of a movie and rebuilds its tags.
func (s *Service) Update(ctx context.Context, id int64, in movie.Input) (movie.Movie, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("get movie: %w", err)
	}
	next, err := cur.Update(in, s.now().UTC())
	if err != nil {
		return movie.Movie{}, fmt.Errorf("validate movie: %w: %w", domain.ErrInvalidMovie, err)
	}
	if err := s.repo.Update(ctx, next); err != nil {
		return movie.Movie{}, fmt.Errorf("update movie: %w", err)
	}
	return next, nil
}

// Get retrieves a movie by id.
func (s *Service) Get(ctx context.Context, id int64) (movie.Movie, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

// Delete removes a movie.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}

// List returns the catalog in catalog order.
func (s *Service) List(ctx context.Context) ([]movie.Movie, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return all, nil
}

// Search returns movies where any word of query is a substring of the
// title, the language or one of the genres (case-insensitive). A query
// without words returns the whole catalog.
func (s *Service) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	tokens := searchToken.FindAllString(strings.ToLower(query), -1)
	if len(tokens) == 0 {
		return all, nil
	}

	out := make([]movie.Movie, 0, len(all))
	for _, m := range all {
		if matchesAny(m, tokens) {
			out = append(out, m)
		}
	}
	return out, nil
}

// NewReleases returns the n most recently created movies; n <= 0 uses the default.
func (s *Service) NewReleases(ctx context.Context, n int) ([]movie.Movie, error) {
	if n <= 0 {
		n = s.newReleases
	}
	ms, err := s.repo.NewReleases(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("new releases: %w", err)
	}
	return ms, nil
}

// ByGenre returns movies of a genre, newest first.
func (s *Service) ByGenre(ctx context.Context, genre string) ([]movie.Movie, error) {
	ms, err := s.repo.ByGenre(ctx, genre)
	if err != nil {
		return nil, fmt.Errorf("movies by genre: %w", err)
	}
	return ms, nil
}

// Genres returns genres that have movies, sorted by name.
func (s *Service) Genres(ctx context.Context) ([]movie.GenreCount, error) {
	gs, err := s.repo.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return gs, nil
}

// Popular ranks movies by recent_likes / (recent_views + 1) over the popularity
// window. Movies scoring 0 are omitted. Ties fall back to recent likes, recent
// views, then newest id.
func (s *Service) Popular(ctx context.Context) ([]Popular, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	since := s.now().Add(-s.popularWindow)

	out := make([]Popular, 0, len(all))
	for _, m := range all {
		likes, views, err := s.popularity.RecentCounts(ctx, m.ID(), since)
		if err != nil {
			return nil, fmt.Errorf("popularity of %d: %w", m.ID(), err)
		}
		score := float64(likes) / float64(views+1)
		if score <= 0 {
			continue
		}
		out = append(out, Popular{Movie: m, Score: score, RecentLikes: likes, RecentViews: views})
	}

	slices.SortFunc(out, func(a, b Popular) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.RecentLikes, a.RecentLikes); c != 0 {
			return c
		}
		if c := cmp.Compare(b.RecentViews, a.RecentViews); c != 0 {
			return c
		}
		return cmp.Compare(b.Movie.ID(), a.Movie.ID())
	})
	return out, nil
}

func matchesAny(m movie.Movie, tokens []string) bool {
	title := strings.ToLower(m.Title())
	lang := strings.ToLower(m.Language())
	for _, tok := range tokens {
		if strings.Contains(title, tok) || strings.Contains(lang, tok) {
			return true
		}
		for _, g := range m.Genres() {
			if strings.Contains(strings.ToLower(g), tok) {
				return true
			}
		}
	}
	return false
}
