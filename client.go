// Package movierec embeds the movie catalog and its content-based
// recommendation engine backed by Redis or Valkey.
package movierec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
	dbRedis "github.com/kailas-cloud/movierec/internal/db/redis"
	logpkg "github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/metrics"
	activityrepo "github.com/kailas-cloud/movierec/internal/repository/activity"
	movierepo "github.com/kailas-cloud/movierec/internal/repository/movie"
	activityuc "github.com/kailas-cloud/movierec/internal/usecase/activity"
	cataloguc "github.com/kailas-cloud/movierec/internal/usecase/catalog"
	recommenduc "github.com/kailas-cloud/movierec/internal/usecase/recommend"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the movierec SDK entry point.
type Client struct {
	store       db.Store
	catalogSvc  *cataloguc.Service
	activitySvc *activityuc.Service
	recommend   *recommenduc.Service
	logger      *zap.Logger
}

// New creates a movierec Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.store != nil {
		return wireClient(cfg.store, cfg), nil
	}
	if len(cfg.addrs) == 0 {
		return nil, errors.New("movierec: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("movierec: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
		})
		if err != nil {
			return nil, fmt.Errorf("movierec: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("movierec: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	movies := movierepo.New(store, cfg.keyPrefix)
	activity := activityrepo.New(store, cfg.keyPrefix)

	recOpts := []recommenduc.Option{
		recommenduc.WithLimits(cfg.defaultK, cfg.maxK),
		recommenduc.WithSeed(cfg.randSeed),
	}
	if cfg.metrics {
		metrics.RegisterRecommendMetrics()
		recOpts = append(recOpts, recommenduc.WithObserver(metrics.Recommender{}))
	}

	return &Client{
		store:       store,
		catalogSvc:  cataloguc.New(movies, activity),
		activitySvc: activityuc.New(movies, activity),
		recommend:   recommenduc.New(movies, activity, recOpts...),
		logger:      cfg.logger,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// AddMovie validates in, builds its tags and stores it.
func (c *Client) AddMovie(ctx context.Context, in MovieInput) (Movie, error) {
	m, err := c.catalogSvc.Create(c.withLogger(ctx), in.toDomain())
	if err != nil {
		return Movie{}, fmt.Errorf("add movie: %w", err)
	}
	return movieFromDomain(m), nil
}

// GetMovie returns a movie by ID.
func (c *Client) GetMovie(ctx context.Context, id int64) (Movie, error) {
	m, err := c.catalogSvc.Get(c.withLogger(ctx), id)
	if err != nil {
		return Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return movieFromDomain(m), nil
}

// Similar returns up to k movies most similar to the movie titled title
// (case-insensitive). An unknown title or empty catalog yields no results.
func (c *Client) Similar(ctx context.Context, title string, k int) ([]Recommendation, error) {
	recs, err := c.recommend.Similar(c.withLogger(ctx), title, k)
	if err != nil {
		return nil, fmt.Errorf("similar: %w", err)
	}
	return recommendationsFromDomain(recs), nil
}

// ForUser returns up to k unwatched movies ranked against the user's watch history.
func (c *Client) ForUser(ctx context.Context, userID string, k int) ([]Recommendation, error) {
	recs, err := c.recommend.ForUser(c.withLogger(ctx), userID, k)
	if err != nil {
		return nil, fmt.Errorf("for user: %w", err)
	}
	return recommendationsFromDomain(recs), nil
}

// RecordWatch adds movieID to the user's history. recorded is false when
// the same user already watched it within the last day.
func (c *Client) RecordWatch(ctx context.Context, userID string, movieID int64) (recorded bool, err error) {
	recorded, err = c.activitySvc.RecordWatch(c.withLogger(ctx), userID, movieID, "")
	if err != nil {
		return false, fmt.Errorf("record watch: %w", err)
	}
	return recorded, nil
}

func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.logger == nil {
		return ctx
	}
	return logpkg.ContextWithLogger(ctx, c.logger)
}
