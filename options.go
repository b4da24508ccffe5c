package movierec

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	username string
	password string
	db       int

	keyPrefix string
	randSeed  uint64
	defaultK  int
	maxK      int
	metrics   bool

	logger *zap.Logger

	store db.Store // preconnected store, skips dialing
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithACLUser sets the ACL username and selects a logical database.
func WithACLUser(username string, database int) Option {
	return func(c *clientConfig) {
		c.username = username
		c.db = database
	}
}

// WithKeyPrefix namespaces every stored key. Default: "movierec:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithLogger enables debug logging of recommendation calls.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithRandSeed makes the random fallback of ForUser reproducible.
// 0 keeps the default clock-seeded source.
func WithRandSeed(seed uint64) Option {
	return func(c *clientConfig) {
		c.randSeed = seed
	}
}

// WithDefaultK sets the number of recommendations returned when k <= 0. Default: 7.
func WithDefaultK(k int) Option {
	return func(c *clientConfig) {
		c.defaultK = k
	}
}

// WithMaxK caps the number of recommendations per call. Default: uncapped.
func WithMaxK(k int) Option {
	return func(c *clientConfig) {
		c.maxK = k
	}
}

// WithPrometheus registers recommendation metrics on the default Prometheus
// registry and records every call.
func WithPrometheus() Option {
	return func(c *clientConfig) {
		c.metrics = true
	}
}
