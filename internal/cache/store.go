package cache

import (
	"context"
	"time"
)

// Store is the key-value backend behind the Manager.
//
// Implementations report backend failures as errors; deciding what a failure
// means for the caller is the Manager's job.
type Store interface {
	// Get returns the stored bytes, or nil and no error when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// SetWithExpiry stores value under key, overwriting any previous value.
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the given keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes every key matching a glob pattern. No match is not an error.
	DeleteByPattern(ctx context.Context, pattern string) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend connection.
	Close() error
}
