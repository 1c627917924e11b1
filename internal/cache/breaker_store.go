package cache

import (
	"context"
	"time"

	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
)

// BreakerStore guards a Store with a circuit breaker so that, once the backend
// keeps failing, calls return circuitbreaker.ErrCircuitOpen without waiting on
// a timeout.
type BreakerStore struct {
	store   Store
	breaker *circuitbreaker.CircuitBreaker
}

// NewBreakerStore wraps store. A zero config falls back to circuitbreaker.DefaultConfig.
func NewBreakerStore(store Store, cfg circuitbreaker.Config) *BreakerStore {
	if cfg.FailureThreshold == 0 {
		name := cfg.Name
		cfg = circuitbreaker.DefaultConfig()
		if name != "" {
			cfg.Name = name
		}
	}
	return &BreakerStore{
		store:   store,
		breaker: circuitbreaker.New(cfg),
	}
}

// Get reads through the breaker. A miss counts as a success.
func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.breaker.Execute(ctx, func() error {
		var err error
		out, err = s.store.Get(ctx, key)
		return err
	})
	return out, err
}

func (s *BreakerStore) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.breaker.Execute(ctx, func() error {
		return s.store.SetWithExpiry(ctx, key, value, ttl)
	})
}

func (s *BreakerStore) Delete(ctx context.Context, keys ...string) error {
	return s.breaker.Execute(ctx, func() error {
		return s.store.Delete(ctx, keys...)
	})
}

func (s *BreakerStore) DeleteByPattern(ctx context.Context, pattern string) error {
	return s.breaker.Execute(ctx, func() error {
		return s.store.DeleteByPattern(ctx, pattern)
	})
}

// Ping bypasses the breaker so readiness probes see the real backend state.
func (s *BreakerStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *BreakerStore) Close() error {
	return s.store.Close()
}

// Breaker exposes the underlying breaker for health reporting.
func (s *BreakerStore) Breaker() *circuitbreaker.CircuitBreaker {
	return s.breaker
}

var _ Store = (*BreakerStore)(nil)
