package movie

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
)

func TestCreate_AssignsAscendingIDs(t *testing.T) {
	repo, _ := newTestRepo(t)

	a := mustCreate(t, repo, newMovie(t, "Alpha", []string{"Drama"}, 0))
	b := mustCreate(t, repo, newMovie(t, "Beta", []string{"Drama"}, time.Minute))

	if a.ID() != 1 || b.ID() != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", a.ID(), b.ID())
	}

	got, err := repo.Get(context.Background(), b.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title() != "Beta" || got.Tags() != b.Tags() {
		t.Errorf("round trip lost data: %q %q", got.Title(), got.Tags())
	}
	if !got.CreatedAt().Equal(b.CreatedAt()) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt(), b.CreatedAt())
	}
	if len(got.Genres()) != 1 || got.Genres()[0] != "Drama" {
		t.Errorf("Genres = %v", got.Genres())
	}
}

func TestCreate_IncrError(t *testing.T) {
	repo, fs := newTestRepo(t)
	fs.failIncr = true

	if _, err := repo.Create(context.Background(), newMovie(t, "X", nil, 0)); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Get(context.Background(), 42); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	repo, fs := newTestRepo(t)
	fs.failHGetAll = true
	_, err := repo.Get(context.Background(), 1)
	if err == nil || errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAll_CatalogOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		mustCreate(t, repo, newMovie(t, title, nil, 0))
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 || all[0].Title() != "One" || all[2].Title() != "Three" {
		t.Errorf("unexpected order: %v", titles(all))
	}
}

func TestAll_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	all, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty catalog, got %d", len(all))
	}
}

func TestAll_ZRangeError(t *testing.T) {
	repo, fs := newTestRepo(t)
	fs.failZRange = true
	if _, err := repo.All(context.Background()); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestFindByTitle_CaseInsensitiveFirstMatch(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first := mustCreate(t, repo, newMovie(t, "Heat", nil, 0))
	mustCreate(t, repo, newMovie(t, "HEAT", nil, 0))

	got, ok, err := repo.FindByTitle(ctx, "heat")
	if err != nil || !ok {
		t.Fatalf("FindByTitle = %v, %v", ok, err)
	}
	if got.ID() != first.ID() {
		t.Errorf("expected first match %d, got %d", first.ID(), got.ID())
	}

	if _, ok, _ := repo.FindByTitle(ctx, "hea"); ok {
		t.Error("partial title must not match")
	}
}

func TestUpdate_ReindexesGenresAndKeepsCounters(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	m := mustCreate(t, repo, newMovie(t, "Alpha", []string{"Drama", "War"}, 0))
	if err := repo.AddViews(ctx, m.ID(), 3); err != nil {
		t.Fatalf("AddViews: %v", err)
	}

	in := newMovie(t, "Alpha", []string{"Drama", "Comedy"}, 0)
	updated, err := m.Update(inputOf(in), baseTime.Add(time.Hour))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Update(ctx, updated); err != nil {
		t.Fatalf("repo.Update: %v", err)
	}

	got, _ := repo.Get(ctx, m.ID())
	if got.TotalViews() != 3 {
		t.Errorf("TotalViews = %d, want 3", got.TotalViews())
	}

	war, _ := repo.ByGenre(ctx, "war")
	if len(war) != 0 {
		t.Errorf("war index should be empty, got %v", titles(war))
	}
	comedy, _ := repo.ByGenre(ctx, "Comedy")
	if len(comedy) != 1 {
		t.Errorf("comedy index = %v", titles(comedy))
	}

	genres, _ := repo.Genres(ctx)
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	if len(names) != 2 || names[0] != "Comedy" || names[1] != "Drama" {
		t.Errorf("Genres = %v", names)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	ghost := newMovie(t, "Ghost", nil, 0)
	m := ghost.WithID(9)
	if err := repo.Update(context.Background(), m); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Fatalf("expected ErrMovieNotFound, got %v", err)
	}
}

func TestDelete_RemovesFromIndexes(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	a := mustCreate(t, repo, newMovie(t, "Alpha", []string{"Drama"}, 0))
	mustCreate(t, repo, newMovie(t, "Beta", []string{"Drama"}, 0))

	if err := repo.Delete(ctx, a.ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, a.ID()); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Errorf("expected deleted movie to be gone, got %v", err)
	}
	all, _ := repo.All(ctx)
	if len(all) != 1 || all[0].Title() != "Beta" {
		t.Errorf("All after delete = %v", titles(all))
	}
	genres, _ := repo.Genres(ctx)
	if len(genres) != 1 || genres[0].Count != 1 {
		t.Errorf("Genres after delete = %+v", genres)
	}
	if err := repo.Delete(ctx, a.ID()); !errors.Is(err, domain.ErrMovieNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestNewReleases_NewestFirstAndLimited(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newMovie(t, "Old", nil, 0))
	mustCreate(t, repo, newMovie(t, "Newest", nil, 2*time.Hour))
	mustCreate(t, repo, newMovie(t, "Middle", nil, time.Hour))

	got, err := repo.NewReleases(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title() != "Newest" || got[1].Title() != "Middle" {
		t.Errorf("NewReleases = %v", titles(got))
	}
}

func TestByGenre_NewestIDFirst(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	mustCreate(t, repo, newMovie(t, "A", []string{"Sci-Fi"}, 0))
	mustCreate(t, repo, newMovie(t, "B", []string{"Drama"}, 0))
	mustCreate(t, repo, newMovie(t, "C", []string{"sci-fi"}, 0))

	got, err := repo.ByGenre(ctx, "SCI-FI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title() != "C" || got[1].Title() != "A" {
		t.Errorf("ByGenre = %v", titles(got))
	}
}

func TestCounters(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	m := mustCreate(t, repo, newMovie(t, "A", nil, 0))

	_ = repo.AddLikes(ctx, m.ID(), 1)
	_ = repo.AddLikes(ctx, m.ID(), 1)
	_ = repo.AddLikes(ctx, m.ID(), -1)

	got, _ := repo.Get(ctx, m.ID())
	if got.TotalLikes() != 1 {
		t.Errorf("TotalLikes = %d, want 1", got.TotalLikes())
	}
}
