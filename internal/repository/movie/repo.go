package movie

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain"
	dommovie "github.com/kailas-cloud/movierec/internal/domain/movie"
)

// store is the consumer interface for movies (ISP).
//
//nolint:interfacebloat // movie repo needs hash, counter and sorted set operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
	ZAdd(ctx context.Context, key string, members ...db.ScoredMember) error
	ZRem(ctx context.Context, key string, members ...string) error
	ZRange(ctx context.Context, key string, rev bool) ([]string, error)
}

// Repo stores movies as hashes plus sorted set indexes:
// catalog order (by id), creation time and one set per genre.
type Repo struct {
	store  store
	prefix string
}

// New creates a movie repository. An empty prefix falls back to domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Create allocates an id, stores the movie and indexes it.
func (r *Repo) Create(ctx context.Context, m dommovie.Movie) (dommovie.Movie, error) {
	id, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return dommovie.Movie{}, fmt.Errorf("allocate movie id: %w", err)
	}
	m = m.WithID(id)

	fields, err := movieToHash(m)
	if err != nil {
		return dommovie.Movie{}, err
	}
	fields[fieldTotalViews] = "0"
	fields[fieldTotalLikes] = "0"
	if err := r.store.HSet(ctx, r.movieKey(id), fields); err != nil {
		return dommovie.Movie{}, fmt.Errorf("hset movie %d: %w", id, err)
	}

	member := strconv.FormatInt(id, 10)
	if err := r.store.ZAdd(ctx, r.catalogKey(), db.ScoredMember{Member: member, Score: float64(id)}); err != nil {
		return dommovie.Movie{}, fmt.Errorf("index movie %d: %w", id, err)
	}
	created := db.ScoredMember{Member: member, Score: float64(m.CreatedAt().UnixMilli())}
	if err := r.store.ZAdd(ctx, r.createdKey(), created); err != nil {
		return dommovie.Movie{}, fmt.Errorf("index movie %d creation: %w", id, err)
	}
	if err := r.addGenres(ctx, id, m.Genres()); err != nil {
		return dommovie.Movie{}, err
	}
	return m, nil
}

// Update overwrites the editable fields and reconciles genre indexes.
func (r *Repo) Update(ctx context.Context, m dommovie.Movie) error {
	prev, err := r.Get(ctx, m.ID())
	if err != nil {
		return err
	}

	fields, err := movieToHash(m)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.movieKey(m.ID()), fields); err != nil {
		return fmt.Errorf("hset movie %d: %w", m.ID(), err)
	}

	removed := genreDiff(prev.Genres(), m.Genres())
	added := genreDiff(m.Genres(), prev.Genres())
	if err := r.removeGenres(ctx, m.ID(), removed); err != nil {
		return err
	}
	return r.addGenres(ctx, m.ID(), added)
}

// Get retrieves a movie by id.
func (r *Repo) Get(ctx context.Context, id int64) (dommovie.Movie, error) {
	h, err := r.store.HGetAll(ctx, r.movieKey(id))
	if err != nil {
		return dommovie.Movie{}, fmt.Errorf("hgetall movie %d: %w", id, err)
	}
	if len(h) == 0 {
		return dommovie.Movie{}, domain.ErrMovieNotFound
	}
	return movieFromHash(h)
}

// Delete removes a movie and its index entries.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	m, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	member := strconv.FormatInt(id, 10)
	if err := r.store.Del(ctx, r.movieKey(id)); err != nil {
		return fmt.Errorf("del movie %d: %w", id, err)
	}
	if err := r.store.ZRem(ctx, r.catalogKey(), member); err != nil {
		return fmt.Errorf("unindex movie %d: %w", id, err)
	}
	if err := r.store.ZRem(ctx, r.createdKey(), member); err != nil {
		return fmt.Errorf("unindex movie %d creation: %w", id, err)
	}
	return r.removeGenres(ctx, id, m.Genres())
}

// All returns every movie in catalog order (ascending id).
func (r *Repo) All(ctx context.Context) ([]dommovie.Movie, error) {
	ids, err := r.store.ZRange(ctx, r.catalogKey(), false)
	if err != nil {
		return nil, fmt.Errorf("zrange catalog: %w", err)
	}
	return r.load(ctx, ids)
}

// FindByTitle returns the first movie in catalog order whose title equals
// title case-insensitively.
func (r *Repo) FindByTitle(ctx context.Context, title string) (dommovie.Movie, bool, error) {
	all, err := r.All(ctx)
	if err != nil {
		return dommovie.Movie{}, false, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Title(), title) {
			return all[i], true, nil
		}
	}
	return dommovie.Movie{}, false, nil
}

// ByGenre returns movies carrying genre, newest id first.
func (r *Repo) ByGenre(ctx context.Context, genre string) ([]dommovie.Movie, error) {
	ids, err := r.store.ZRange(ctx, r.genreKey(genre), true)
	if err != nil {
		return nil, fmt.Errorf("zrange genre %s: %w", genre, err)
	}
	return r.load(ctx, ids)
}

// NewReleases returns up to n movies, most recently created first.
func (r *Repo) NewReleases(ctx context.Context, n int) ([]dommovie.Movie, error) {
	ids, err := r.store.ZRange(ctx, r.createdKey(), true)
	if err != nil {
		return nil, fmt.Errorf("zrange releases: %w", err)
	}
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return r.load(ctx, ids)
}

// Genres returns genres with at least one movie, sorted by name.
func (r *Repo) Genres(ctx context.Context) ([]dommovie.GenreCount, error) {
	h, err := r.store.HGetAll(ctx, r.genresKey())
	if err != nil {
		return nil, fmt.Errorf("hgetall genres: %w", err)
	}
	out := make([]dommovie.GenreCount, 0, len(h))
	for name, raw := range h {
		if n := parseCounter(raw); n > 0 {
			out = append(out, dommovie.GenreCount{Name: name, Count: n})
		}
	}
	slices.SortFunc(out, func(a, b dommovie.GenreCount) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

// AddViews adjusts the view counter of a movie.
func (r *Repo) AddViews(ctx context.Context, id, delta int64) error {
	if _, err := r.store.HIncrBy(ctx, r.movieKey(id), fieldTotalViews, delta); err != nil {
		return fmt.Errorf("incr views %d: %w", id, err)
	}
	return nil
}

// AddLikes adjusts the like counter of a movie.
func (r *Repo) AddLikes(ctx context.Context, id, delta int64) error {
	if _, err := r.store.HIncrBy(ctx, r.movieKey(id), fieldTotalLikes, delta); err != nil {
		return fmt.Errorf("incr likes %d: %w", id, err)
	}
	return nil
}

// load fetches movies by id string, preserving order and skipping ids whose hash is gone.
func (r *Repo) load(ctx context.Context, ids []string) ([]dommovie.Movie, error) {
	if len(ids) == 0 {
		return []dommovie.Movie{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + "movie:" + id
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi movies: %w", err)
	}

	out := make([]dommovie.Movie, 0, len(hashes))
	for i, h := range hashes {
		if len(h) == 0 {
			continue
		}
		m, err := movieFromHash(h)
		if err != nil {
			return nil, fmt.Errorf("parse movie %s: %w", keys[i], err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Repo) addGenres(ctx context.Context, id int64, genres []string) error {
	member := strconv.FormatInt(id, 10)
	for _, g := range genres {
		if err := r.store.ZAdd(ctx, r.genreKey(g), db.ScoredMember{Member: member, Score: float64(id)}); err != nil {
			return fmt.Errorf("index genre %s: %w", g, err)
		}
		if _, err := r.store.HIncrBy(ctx, r.genresKey(), g, 1); err != nil {
			return fmt.Errorf("count genre %s: %w", g, err)
		}
	}
	return nil
}

func (r *Repo) removeGenres(ctx context.Context, id int64, genres []string) error {
	member := strconv.FormatInt(id, 10)
	for _, g := range genres {
		if err := r.store.ZRem(ctx, r.genreKey(g), member); err != nil {
			return fmt.Errorf("unindex genre %s: %w", g, err)
		}
		n, err := r.store.HIncrBy(ctx, r.genresKey(), g, -1)
		if err != nil {
			return fmt.Errorf("count genre %s: %w", g, err)
		}
		if n <= 0 {
			if err := r.store.HDel(ctx, r.genresKey(), g); err != nil {
				return fmt.Errorf("drop genre %s: %w", g, err)
			}
		}
	}
	return nil
}

// genreDiff returns the genres of a missing from b (case-insensitive).
func genreDiff(a, b []string) []string {
	var out []string
	for _, g := range a {
		if !slices.ContainsFunc(b, func(o string) bool { return strings.EqualFold(o, g) }) {
			out = append(out, g)
		}
	}
	return out
}

// Key patterns: movierec:movie:{id}, movierec:movies, movierec:movies:seq,
// movierec:movies:created, movierec:genre:{name}, movierec:genres

func (r *Repo) movieKey(id int64) string {
	return r.prefix + "movie:" + strconv.FormatInt(id, 10)
}

func (r *Repo) seqKey() string { return r.prefix + "movies:seq" }

func (r *Repo) catalogKey() string { return r.prefix + "movies" }

func (r *Repo) createdKey() string { return r.prefix + "movies:created" }

func (r *Repo) genresKey() string { return r.prefix + "genres" }

func (r *Repo) genreKey(genre string) string {
	return r.prefix + "genre:" + strings.ToLower(genre)
}
