package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/guttosm/rdcredit-service/internal/logger"
	"github.com/guttosm/rdcredit-service/internal/metrics"
)

// Manager is the caching API used by services and middleware.
//
// Every store failure is absorbed here: reads degrade to a miss and writes to
// a no-op, so a cache outage only costs latency. Errors returned by fetch
// functions are not the cache's and are always propagated.
type Manager struct {
	store         Store
	logger        zerolog.Logger
	group         *singleflight.Group
	negativeTTL   time.Duration
	fetchTimeout  time.Duration
	relationships map[EntityKind][]string
}

// DefaultFetchTimeout bounds a shared single-flight fetch.
const DefaultFetchTimeout = 30 * time.Second

// Option configures a Manager.
type Option func(*Manager)

// WithSingleFlight collapses concurrent fetches of the same cold key into one
// upstream call.
func WithSingleFlight() Option {
	return func(m *Manager) {
		m.group = &singleflight.Group{}
	}
}

// WithNegativeTTL caches not-found results (nil or zero values) for ttl.
// Without it they are never cached.
func WithNegativeTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.negativeTTL = ttl
	}
}

// WithFetchTimeout bounds a fetch shared by single-flight callers. It runs
// detached from the caller that started it.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.fetchTimeout = d
		}
	}
}

// NewManager creates a Manager on top of store. A nil store yields a disabled
// manager where every read misses and every write is dropped.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:         store,
		logger:        logger.Component("cache"),
		fetchTimeout:  DefaultFetchTimeout,
		relationships: Relationships,
	}
	for _, opt := range opts {
		opt(m)
	}
	if store == nil {
		m.logger.Warn().Msg("Cache store not configured, caching disabled")
	}
	return m
}

// Enabled reports whether a store backs the manager.
func (m *Manager) Enabled() bool {
	return m != nil && m.store != nil
}

// Get decodes the value stored under key into dest. It reports false on a
// miss, a store error or a value that does not decode.
func (m *Manager) Get(ctx context.Context, key string, dest any) bool {
	if !m.Enabled() {
		return false
	}

	data, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache get failed")
		metrics.RecordCacheOperation("get", "error")
		return false
	}
	if data == nil {
		m.logger.Debug().Str("key", key).Msg("Cache miss")
		metrics.RecordCacheOperation("get", "miss")
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		metrics.RecordCacheOperation("get", "error")
		return false
	}

	metrics.RecordCacheOperation("get", "hit")
	return true
}

// Set stores value as JSON under key. A non-positive ttl means TTLMedium.
func (m *Manager) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !m.Enabled() {
		return
	}
	if ttl <= 0 {
		ttl = TTLMedium
	}

	data, err := json.Marshal(value)
	if err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache value not serializable")
		metrics.RecordCacheOperation("set", "error")
		return
	}
	if err := m.store.SetWithExpiry(ctx, key, data, ttl); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("Cache set failed")
		metrics.RecordCacheOperation("set", "error")
		return
	}
	metrics.RecordCacheOperation("set", "ok")
}

// Delete removes keys. Calling it with no keys does nothing.
func (m *Manager) Delete(ctx context.Context, keys ...string) {
	if !m.Enabled() || len(keys) == 0 {
		return
	}
	if err := m.store.Delete(ctx, keys...); err != nil {
		m.logger.Warn().Err(err).Strs("keys", keys).Msg("Cache delete failed")
		metrics.RecordCacheOperation("delete", "error")
		return
	}
	metrics.RecordCacheOperation("delete", "ok")
}

// DeletePattern removes every key matching a glob pattern.
func (m *Manager) DeletePattern(ctx context.Context, pattern string) {
	if !m.Enabled() {
		return
	}
	if err := m.store.DeleteByPattern(ctx, pattern); err != nil {
		m.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache pattern delete failed")
		metrics.RecordCacheOperation("delete_pattern", "error")
		return
	}
	metrics.RecordCacheOperation("delete_pattern", "ok")
}

// Healthy pings the store. A disabled manager is never healthy.
func (m *Manager) Healthy(ctx context.Context) bool {
	if !m.Enabled() {
		return false
	}
	if err := m.store.Ping(ctx); err != nil {
		m.logger.Debug().Err(err).Msg("Cache ping failed")
		return false
	}
	return true
}

// Close releases the store.
func (m *Manager) Close() error {
	if !m.Enabled() {
		return nil
	}
	return m.store.Close()
}
