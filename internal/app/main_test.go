//go:build integration

package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/testutil"
)

// TestMain starts the shared MongoDB and Redis containers for the app
// integration tests.
func TestMain(m *testing.M) {
	ctx := context.Background()

	mongo, err := testutil.GetSharedMongoDB(ctx)
	if err != nil {
		panic(err)
	}
	redis, err := testutil.GetSharedRedis(ctx)
	if err != nil {
		_ = mongo.Cleanup(ctx)
		panic(err)
	}

	code := m.Run()

	for _, c := range []*testutil.Container{mongo, redis} {
		if err := c.Cleanup(ctx); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to cleanup container: %v\n", err)
		}
	}
	os.Exit(code)
}

func integrationConfig(t *testing.T) config.Config {
	t.Helper()
	host, port, err := net.SplitHostPort(testutil.GetSharedRedisAddr())
	if err != nil {
		t.Fatalf("redis addr: %v", err)
	}
	redisPort, err := strconv.Atoi(port)
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}

	return config.Config{
		Server: config.ServerConfig{Port: "8080", RateLimit: 100, RateWindow: time.Minute},
		Cache: config.CacheConfig{
			Backend:                        config.CacheBackendRedis,
			SingleFlight:                   true,
			KeyPrefix:                      testutil.SanitizeDBName(t.Name()) + ":",
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerTimeout:          30 * time.Second,
		},
		Redis: config.RedisConfig{
			Host:        host,
			Port:        redisPort,
			DialTimeout: 2 * time.Second,
			OpTimeout:   time.Second,
		},
		Database: config.DatabaseConfig{
			URI:                            testutil.GetSharedContainerURI(),
			DatabaseName:                   testutil.SanitizeDBName(t.Name()),
			LogsTTL:                        30 * 24 * time.Hour,
			Enabled:                        true,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
	}
}
