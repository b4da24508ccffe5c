// Package recommend ranks movies by TF-IDF cosine similarity of their tags.
// Every call fits a fresh model over the current catalog; nothing is cached.
package recommend

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/tfidf"
	"github.com/kailas-cloud/movierec/internal/logger"
	"go.uber.org/zap"
)

// DefaultK is the result size used when callers pass k <= 0.
const DefaultK = 7

// Policy names a ranking policy.
type Policy string

const (
	// PolicySimilar ranks the catalog against one movie.
	PolicySimilar Policy = "similar"
	// PolicyForUser ranks unwatched movies against a user's watch profile.
	PolicyForUser Policy = "for_user"
)

// Outcome explains why a call returned what it returned.
type Outcome string

// Outcomes recorded per call. They never change the returned list.
const (
	OutcomeOK             Outcome = "ok"
	OutcomeEmptyCatalog   Outcome = "empty_catalog"
	OutcomeTitleNotFound  Outcome = "title_not_found"
	OutcomeNoHistory      Outcome = "no_history"
	OutcomeAllWatched     Outcome = "all_watched"
	OutcomeRandomFallback Outcome = "random_fallback"
)

// Recommendation is one ranked movie. Score is 0 for randomized fallback picks.
type Recommendation struct {
	Movie movie.Movie
	Score float64
}

// Service implements the item-to-item and user-to-item policies.
type Service struct {
	catalog  CatalogReader
	history  HistoryReader
	observer Observer
	defaultK int
	maxK     int // 0 means uncapped

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRandSource sets the source used by the randomized fallback.
func WithRandSource(src rand.Source) Option {
	return func(s *Service) { s.rng = rand.New(src) }
}

// WithSeed seeds the randomized fallback deterministically. Zero keeps the time-seeded default.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		if seed != 0 {
			s.rng = rand.New(rand.NewPCG(seed, seed))
		}
	}
}

// WithLimits overrides the default K and sets a maximum K. Non-positive
// values keep the default K and leave K uncapped.
func WithLimits(defaultK, maxK int) Option {
	return func(s *Service) {
		if defaultK > 0 {
			s.defaultK = defaultK
		}
		if maxK > 0 {
			s.maxK = maxK
		}
	}
}

// WithObserver attaches an observer (metrics).
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// New creates a recommendation service.
func New(catalog CatalogReader, history HistoryReader, opts ...Option) *Service {
	now := uint64(time.Now().UnixNano()) //nolint:gosec // seed only
	s := &Service{
		catalog:  catalog,
		history:  history,
		defaultK: DefaultK,
		rng:      rand.New(rand.NewPCG(now, now>>1)),
	}
	for _, o := range opts {
		o(s)
	}
	if s.maxK > 0 && s.defaultK > s.maxK {
		s.defaultK = s.maxK
	}
	return s
}

// Similar returns up to k movies most similar to the movie titled title
// (case-insensitive exact match). The movie itself is never returned.
// Unknown titles and an empty catalog yield an empty result.
func (s *Service) Similar(ctx context.Context, title string, k int) ([]Recommendation, error) {
	start := time.Now()
	k = s.ClampK(k)

	all, err := s.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if len(all) == 0 {
		s.finish(ctx, PolicySimilar, OutcomeEmptyCatalog, start, 0, 0, 0)
		return nil, nil
	}

	query := indexOfTitle(all, title)
	if query < 0 {
		s.finish(ctx, PolicySimilar, OutcomeTitleNotFound, start, len(all), 0, 0)
		return nil, nil
	}

	docs := make([]string, len(all))
	for i := range all {
		docs[i] = all[i].Tags()
	}
	model, err := tfidf.FitTags(docs)
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	ranked := tfidf.RankTop(model.ScoreAgainst(query), k)
	out := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		out[i] = Recommendation{Movie: all[r.Index], Score: r.Score}
	}

	s.finish(ctx, PolicySimilar, OutcomeOK, start, len(all), model.Vocabulary().Len(), len(out))
	return out, nil
}

// ForUser returns up to k unwatched movies ranked against the user's
// profile, the concatenated tags of everything they watched. When the
// profile has no terms, k unwatched movies are returned in random order.
func (s *Service) ForUser(ctx context.Context, userID string, k int) ([]Recommendation, error) {
	start := time.Now()
	if err := domain.CheckUserID(userID); err != nil {
		return nil, err
	}
	k = s.ClampK(k)

	all, err := s.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if len(all) == 0 {
		s.finish(ctx, PolicyForUser, OutcomeEmptyCatalog, start, 0, 0, 0)
		return nil, nil
	}

	watchedIDs, err := s.history.WatchedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if len(watchedIDs) == 0 {
		s.finish(ctx, PolicyForUser, OutcomeNoHistory, start, len(all), 0, 0)
		return nil, nil
	}

	// Ids of deleted movies may linger in the history; only catalog
	// members count as watched.
	var profileParts []string
	watched := 0
	unwatched := make([]movie.Movie, 0, len(all))
	for i := range all {
		if _, seen := watchedIDs[all[i].ID()]; seen {
			watched++
			profileParts = append(profileParts, all[i].Tags())
			continue
		}
		unwatched = append(unwatched, all[i])
	}
	if watched == 0 {
		s.finish(ctx, PolicyForUser, OutcomeNoHistory, start, len(all), 0, 0)
		return nil, nil
	}
	if len(unwatched) == 0 {
		s.finish(ctx, PolicyForUser, OutcomeAllWatched, start, len(all), 0, 0)
		return nil, nil
	}

	profile := strings.Join(profileParts, " ")
	if len(tfidf.Tokenize(profile)) == 0 {
		out := s.randomPick(unwatched, k)
		s.finish(ctx, PolicyForUser, OutcomeRandomFallback, start, len(unwatched), 0, len(out))
		return out, nil
	}

	docs := make([]string, 0, len(unwatched)+1)
	docs = append(docs, profile)
	for i := range unwatched {
		docs = append(docs, unwatched[i].Tags())
	}
	model, err := tfidf.FitTags(docs)
	if err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}

	// Position 0 is the profile, so document i maps to unwatched[i-1].
	ranked := tfidf.RankTop(model.ScoreAgainst(0), k)
	out := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		out[i] = Recommendation{Movie: unwatched[r.Index-1], Score: r.Score}
	}

	s.finish(ctx, PolicyForUser, OutcomeOK, start, len(docs), model.Vocabulary().Len(), len(out))
	return out, nil
}

// DefaultK returns the K used when callers pass k <= 0.
func (s *Service) DefaultK() int { return s.defaultK }

// ClampK returns the effective K: the default for k <= 0, capped at the
// maximum when one is set.
func (s *Service) ClampK(k int) int {
	if k <= 0 {
		return s.defaultK
	}
	if s.maxK > 0 && k > s.maxK {
		return s.maxK
	}
	return k
}

func (s *Service) randomPick(candidates []movie.Movie, k int) []Recommendation {
	picked := make([]movie.Movie, len(candidates))
	copy(picked, candidates)

	s.mu.Lock()
	s.rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	s.mu.Unlock()

	if len(picked) > k {
		picked = picked[:k]
	}
	out := make([]Recommendation, len(picked))
	for i := range picked {
		out[i] = Recommendation{Movie: picked[i]}
	}
	return out
}

func (s *Service) finish(
	ctx context.Context, policy Policy, outcome Outcome, start time.Time,
	corpus, vocab, results int,
) {
	elapsed := time.Since(start)
	logger.FromContext(ctx).Debug("recommendation",
		zap.String("policy", string(policy)),
		zap.String("outcome", string(outcome)),
		zap.Int("corpus_size", corpus),
		zap.Int("vocabulary_size", vocab),
		zap.Int("results", results),
		zap.Duration("elapsed", elapsed),
	)
	if s.observer != nil {
		s.observer.ObserveRecommendation(policy, outcome, results, elapsed)
	}
}

// indexOfTitle returns the first catalog position whose title equals title
// (case-insensitive), or -1.
func indexOfTitle(all []movie.Movie, title string) int {
	for i := range all {
		if strings.EqualFold(all[i].Title(), title) {
			return i
		}
	}
	return -1
}
