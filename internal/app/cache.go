package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
)

const (
	memoryStoreShards = 16
	cachePingTimeout  = 2 * time.Second
)

// InitializeCache builds the cache manager for the configured backend. It
// never fails: an unconfigured or unreachable Redis leaves the service running
// without a cache, or with one that recovers once Redis is back.
func InitializeCache(cfg config.CacheConfig, redisCfg config.RedisConfig) *cache.Manager {
	opts := []cache.Option{cache.WithFetchTimeout(cfg.FetchTimeout)}
	if cfg.SingleFlight {
		opts = append(opts, cache.WithSingleFlight())
	}
	if cfg.NegativeTTL > 0 {
		opts = append(opts, cache.WithNegativeTTL(cfg.NegativeTTL))
	}

	return cache.NewManager(newCacheStore(cfg, redisCfg), opts...)
}

// newCacheStore returns nil when caching is disabled.
func newCacheStore(cfg config.CacheConfig, redisCfg config.RedisConfig) cache.Store {
	switch cfg.Backend {
	case config.CacheBackendNone:
		log.Info().Msg("Cache disabled by configuration")
		return nil

	case config.CacheBackendMemory:
		size := cfg.MemorySize
		if size <= 0 {
			size = 10000
		}
		log.Info().Int("capacity", size).Msg("Using in-process memory cache")
		return cache.NewMemoryStore(size, memoryStoreShards)

	default:
		addr := redisCfg.Addr()
		if addr == "" {
			log.Warn().Msg("REDIS_HOST not set, caching disabled")
			return nil
		}

		redisStore := cache.NewRedisStore(cache.RedisConfig{
			Addr:        addr,
			Password:    redisCfg.Password,
			DB:          redisCfg.DB,
			PoolSize:    redisCfg.PoolSize,
			DialTimeout: redisCfg.DialTimeout,
			OpTimeout:   redisCfg.OpTimeout,
			KeyPrefix:   cfg.KeyPrefix,
		})

		ctx, cancel := context.WithTimeout(context.Background(), cachePingTimeout)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", addr).Msg("Redis unreachable at startup, serving uncached until it recovers")
		} else {
			log.Info().Str("addr", addr).Msg("Connected to Redis")
		}

		return cache.NewBreakerStore(redisStore, circuitbreaker.Config{
			FailureThreshold: cfg.CircuitBreakerFailureThreshold,
			SuccessThreshold: 1,
			Timeout:          cfg.CircuitBreakerTimeout,
			Name:             "redis",
		})
	}
}
