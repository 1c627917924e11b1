//go:build !integration

package app

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/rdcredit-service/config"
)

func miniRedisConfig(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.RedisConfig{
		Host:        mr.Host(),
		Port:        port,
		DialTimeout: time.Second,
		OpTimeout:   time.Second,
	}
}

func TestInitializeCache(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.CacheConfig
		redis       func(t *testing.T) config.RedisConfig
		wantEnabled bool
	}{
		{
			name:        "disabled backend",
			cfg:         config.CacheConfig{Backend: config.CacheBackendNone},
			wantEnabled: false,
		},
		{
			name:        "memory backend",
			cfg:         config.CacheConfig{Backend: config.CacheBackendMemory, MemorySize: 10},
			wantEnabled: true,
		},
		{
			name:        "redis without host",
			cfg:         config.CacheConfig{Backend: config.CacheBackendRedis},
			wantEnabled: false,
		},
		{
			name: "reachable redis",
			cfg:  config.CacheConfig{Backend: config.CacheBackendRedis, SingleFlight: true, KeyPrefix: "rd:"},
			redis: func(t *testing.T) config.RedisConfig {
				return miniRedisConfig(t, miniredis.RunT(t))
			},
			wantEnabled: true,
		},
		{
			name: "unreachable redis still builds a store",
			cfg:  config.CacheConfig{Backend: config.CacheBackendRedis, CircuitBreakerFailureThreshold: 1},
			redis: func(t *testing.T) config.RedisConfig {
				mr := miniredis.RunT(t)
				cfg := miniRedisConfig(t, mr)
				mr.Close()
				return cfg
			},
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var redisCfg config.RedisConfig
			if tt.redis != nil {
				redisCfg = tt.redis(t)
			}

			manager := InitializeCache(tt.cfg, redisCfg)
			t.Cleanup(func() { _ = manager.Close() })

			assert.Equal(t, tt.wantEnabled, manager.Enabled())
		})
	}
}

func TestInitializeCache_RedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	manager := InitializeCache(
		config.CacheConfig{Backend: config.CacheBackendRedis, KeyPrefix: "rd:"},
		miniRedisConfig(t, mr),
	)
	t.Cleanup(func() { _ = manager.Close() })

	ctx := context.Background()
	manager.Set(ctx, "customer:email:jane@acme.io", map[string]string{"id": "rec1"}, time.Minute)

	var got map[string]string
	require.True(t, manager.Get(ctx, "customer:email:jane@acme.io", &got))
	assert.Equal(t, "rec1", got["id"])
	assert.True(t, mr.Exists("rd:customer:email:jane@acme.io"))
}
