// Package breaker decorates storage readers with a circuit breaker so a
// failing store is reported as unavailable instead of being hammered.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
)

// Settings configures the breaker.
type Settings struct {
	Name                string
	MaxRequests         uint32        // half-open probes
	Interval            time.Duration // closed-state count reset
	Timeout             time.Duration // open -> half-open
	ConsecutiveFailures uint32        // trip threshold
}

// StateObserver is notified on every state transition (metrics).
type StateObserver interface {
	BreakerStateChanged(name, from, to string)
}

// Breaker wraps gobreaker with domain error mapping.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// New creates a breaker. observer may be nil.
func New(s Settings, log *zap.Logger, observer StateObserver) *Breaker {
	if s.Name == "" {
		s.Name = "store"
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	threshold := s.ConsecutiveFailures

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Caller cancellations say nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if observer != nil {
				observer.BreakerStateChanged(name, from.String(), to.String())
			}
		},
	})
	return &Breaker{cb: cb, name: s.Name}
}

// State returns the current state name: closed, half-open or open.
func (b *Breaker) State() string { return b.cb.State().String() }

// Check reports domain.ErrStoreUnavailable while the breaker is open (health).
func (b *Breaker) Check(_ context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("breaker %s: %w", b.name, domain.ErrStoreUnavailable)
	}
	return nil
}

// execute runs fn through the breaker and restores its result type.
func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("breaker %s: %w: %w", b.name, domain.ErrStoreUnavailable, err)
		}
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("breaker %s: unexpected result type %T", b.name, res)
	}
	return typed, nil
}
