package movie

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/db/memory"
	dommovie "github.com/kailas-cloud/movierec/internal/domain/movie"
)

var errStore = errors.New("connection lost")

// failingStore wraps the memory store and fails selected commands.
type failingStore struct {
	*memory.Store
	failIncr    bool
	failHGetAll bool
	failZRange  bool
}

func (f *failingStore) Incr(ctx context.Context, key string) (int64, error) {
	if f.failIncr {
		return 0, &db.Error{Op: db.OpIncr, Err: errStore}
	}
	return f.Store.Incr(ctx, key)
}

func (f *failingStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if f.failHGetAll {
		return nil, &db.Error{Op: db.OpHGetAll, Err: errStore}
	}
	return f.Store.HGetAll(ctx, key)
}

func (f *failingStore) ZRange(ctx context.Context, key string, rev bool) ([]string, error) {
	if f.failZRange {
		return nil, &db.Error{Op: db.OpZRange, Err: errStore}
	}
	return f.Store.ZRange(ctx, key, rev)
}

func newTestRepo(t *testing.T) (*Repo, *failingStore) {
	t.Helper()
	fs := &failingStore{Store: memory.New()}
	return New(fs, "test:"), fs
}

var baseTime = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func newMovie(t *testing.T, title string, genres []string, offset time.Duration) dommovie.Movie {
	t.Helper()
	m, err := dommovie.New(dommovie.Input{
		Title:       title,
		Description: "story about " + title,
		Genres:      genres,
		Language:    "English",
		YouTubeID:   "yt",
		Duration:    100,
	}, baseTime.Add(offset))
	if err != nil {
		t.Fatalf("new movie: %v", err)
	}
	return m
}

func mustCreate(t *testing.T, r *Repo, m dommovie.Movie) dommovie.Movie {
	t.Helper()
	created, err := r.Create(context.Background(), m)
	if err != nil {
		t.Fatalf("create %q: %v", m.Title(), err)
	}
	return created
}

func inputOf(m dommovie.Movie) dommovie.Input {
	return dommovie.Input{
		Title:       m.Title(),
		Description: m.Description(),
		Genres:      m.Genres(),
		Language:    m.Language(),
		YouTubeID:   m.YouTubeID(),
		Duration:    m.Duration(),
	}
}

func titles(ms []dommovie.Movie) []string {
	out := make([]string, len(ms))
	for i := range ms {
		out[i] = ms[i].Title()
	}
	return out
}
