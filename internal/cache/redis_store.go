package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatchSize is the COUNT hint used when resolving patterns with SCAN.
const scanBatchSize = 1000

// RedisConfig holds the connection settings of the Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration
	// OpTimeout bounds every single store call so a degraded backend cannot stall a request.
	OpTimeout time.Duration
	// KeyPrefix is prepended to every key, including patterns.
	KeyPrefix string
}

// DefaultRedisConfig returns the settings used when none are provided.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:        "localhost:6379",
		PoolSize:    10,
		DialTimeout: 2 * time.Second,
		OpTimeout:   500 * time.Millisecond,
	}
}

// RedisStore implements Store on top of go-redis.
type RedisStore struct {
	client    *redis.Client
	opTimeout time.Duration
	keyPrefix string
}

// NewRedisStore opens a client for the given configuration. The connection is
// lazy; use Ping to check reachability.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	defaults := DefaultRedisConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaults.DialTimeout
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = defaults.OpTimeout
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaults.PoolSize
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
		MaxRetries:   1,
	})

	return &RedisStore{
		client:    client,
		opTimeout: cfg.OpTimeout,
		keyPrefix: cfg.KeyPrefix,
	}
}

func (s *RedisStore) prefixed(key string) string {
	return s.keyPrefix + key
}

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// Get retrieves the raw value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	b, err := s.client.Get(ctx, s.prefixed(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	return b, nil
}

// SetWithExpiry stores value with a native Redis expiry.
func (s *RedisStore) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.prefixed(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes keys with a single DEL.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefixed(k)
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteByPattern resolves pattern with SCAN MATCH and unlinks each batch.
// Every round trip gets its own OpTimeout so large keyspaces are walked to
// the end; the caller's context still bounds the whole walk.
func (s *RedisStore) DeleteByPattern(ctx context.Context, pattern string) error {
	match := EscapeGlob(s.keyPrefix) + pattern

	var cursor uint64
	for {
		keys, next, err := s.scanBatch(ctx, cursor, match)
		if err != nil {
			return fmt.Errorf("redis scan %q: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := s.unlink(ctx, keys); err != nil {
				return fmt.Errorf("redis unlink pattern %q: %w", pattern, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisStore) scanBatch(ctx context.Context, cursor uint64, match string) ([]string, uint64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Scan(ctx, cursor, match, scanBatchSize).Result()
}

func (s *RedisStore) unlink(ctx context.Context, keys []string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Unlink(ctx, keys...).Err()
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the client and its pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
