package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

type stubCatalog struct {
	movies []movie.Movie
	err    error
	calls  int
}

func (s *stubCatalog) All(_ context.Context) ([]movie.Movie, error) {
	s.calls++
	return s.movies, s.err
}

type stubHistory struct {
	err error
}

func (s *stubHistory) WatchedIDs(_ context.Context, _ string) (map[int64]struct{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[int64]struct{}{1: {}}, nil
}

type recordingObserver struct {
	transitions []string
}

func (r *recordingObserver) BreakerStateChanged(_, from, to string) {
	r.transitions = append(r.transitions, from+"->"+to)
}

func testBreaker(obs StateObserver) *Breaker {
	return New(Settings{
		Name:                "test",
		MaxRequests:         1,
		Timeout:             time.Minute,
		ConsecutiveFailures: 2,
	}, nil, obs)
}

func TestCatalog_PassesThrough(t *testing.T) {
	ts := time.Now()
	stub := &stubCatalog{movies: []movie.Movie{
		movie.Reconstruct(1, "Heat", "", nil, "en", "y", 90, "crime", 0, 0, ts, ts),
	}}
	c := NewCatalog(stub, testBreaker(nil))

	all, err := c.All(context.Background())
	if err != nil || len(all) != 1 || all[0].ID() != 1 {
		t.Fatalf("All = %v, %v", all, err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1", stub.calls)
	}
}

func TestCatalog_OpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &stubCatalog{err: boom}
	obs := &recordingObserver{}
	b := testBreaker(obs)
	c := NewCatalog(stub, b)
	ctx := context.Background()

	for range 2 {
		if _, err := c.All(ctx); !errors.Is(err, boom) {
			t.Fatalf("expected underlying error, got %v", err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q, want open", b.State())
	}
	if len(obs.transitions) != 1 || obs.transitions[0] != "closed->open" {
		t.Errorf("transitions = %v", obs.transitions)
	}

	_, err := c.All(ctx)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("open breaker must not call the store, calls = %d", stub.calls)
	}
	if err := b.Check(ctx); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("Check() = %v", err)
	}
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	stub := &stubCatalog{err: context.Canceled}
	b := testBreaker(nil)
	c := NewCatalog(stub, b)

	for range 5 {
		_, _ = c.All(context.Background())
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
	if err := b.Check(context.Background()); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func TestHistory_SharedBreaker(t *testing.T) {
	b := testBreaker(nil)
	h := NewHistory(&stubHistory{err: errors.New("down")}, b)
	ctx := context.Background()

	_, _ = h.WatchedIDs(ctx, "u1")
	_, _ = h.WatchedIDs(ctx, "u1")

	c := NewCatalog(&stubCatalog{}, b)
	if _, err := c.All(ctx); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("catalog read should fail fast once history tripped the breaker, got %v", err)
	}
}
