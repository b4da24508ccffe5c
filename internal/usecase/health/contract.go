package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// BreakerChecker reports whether the storage circuit breaker is open.
type BreakerChecker interface {
	Check(ctx context.Context) error
}
