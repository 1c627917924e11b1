//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// shared holds one lazily started container per package test binary.
type shared struct {
	once      sync.Once
	container *Container
	err       error
	setup     func(context.Context) (*Container, error)
}

func (s *shared) get(ctx context.Context) (*Container, error) {
	s.once.Do(func() {
		s.container, s.err = s.setup(ctx)
	})
	return s.container, s.err
}

func (s *shared) cleanup(ctx context.Context) error {
	if s.container == nil {
		return nil
	}
	return s.container.Cleanup(ctx)
}

var (
	sharedMongo = &shared{setup: SetupMongoDB}
	sharedRedis = &shared{setup: SetupRedis}
)

// GetSharedMongoDB returns the package's MongoDB container, starting it on first use.
func GetSharedMongoDB(ctx context.Context) (*Container, error) {
	return sharedMongo.get(ctx)
}

// GetSharedRedis returns the package's Redis container, starting it on first use.
func GetSharedRedis(ctx context.Context) (*Container, error) {
	return sharedRedis.get(ctx)
}

// SetupTestMainWithMongoDB starts MongoDB, runs the tests and tears it down.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	return runWith(ctx, m, sharedMongo, "MongoDB")
}

// SetupTestMainWithRedis starts Redis, runs the tests and tears it down.
func SetupTestMainWithRedis(ctx context.Context, m *testing.M) int {
	return runWith(ctx, m, sharedRedis, "Redis")
}

func runWith(ctx context.Context, m *testing.M, s *shared, name string) int {
	if _, err := s.get(ctx); err != nil {
		panic(err)
	}

	code := m.Run()

	if err := s.cleanup(ctx); err != nil {
		// Docker reaps the container anyway.
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to cleanup shared %s container: %v\n", name, err)
	}
	return code
}

// GetSharedContainerURI returns the MongoDB URI. It panics when the container is not running.
func GetSharedContainerURI() string {
	if sharedMongo.container == nil {
		panic("shared MongoDB container not initialized - call GetSharedMongoDB first")
	}
	return sharedMongo.container.URI
}

// GetSharedRedisAddr returns the Redis host:port. It panics when the container is not running.
func GetSharedRedisAddr() string {
	if sharedRedis.container == nil {
		panic("shared Redis container not initialized - call GetSharedRedis first")
	}
	return sharedRedis.container.URI
}

// SanitizeDBName turns a test name into a unique database name or key prefix.
func SanitizeDBName(testName string) string {
	sanitized := strings.NewReplacer("/", "_", `\`, "_").Replace(testName)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
