package cache

import (
	"context"
	"reflect"
	"time"
)

// GetAs is the typed form of Manager.Get.
func GetAs[T any](ctx context.Context, m *Manager, key string) (T, bool) {
	var v T
	if !m.Get(ctx, key, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

// GetOrFetch returns the value cached under key or, on a miss, calls fetch and
// caches its result for ttl. Fetch errors are returned unchanged and nothing is
// cached. Nil or zero results are cached only when the manager has a negative
// TTL.
func GetOrFetch[T any](ctx context.Context, m *Manager, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := GetAs[T](ctx, m, key); ok {
		return v, nil
	}

	if !m.Enabled() || m.group == nil {
		return fetchAndStore(ctx, m, key, ttl, fetch)
	}

	// The shared fetch is detached from the caller that started it; each
	// caller stops waiting only when its own context ends.
	ch := m.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.fetchTimeout)
		defer cancel()
		return fetchAndStore(fetchCtx, m, key, ttl, fetch)
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared {
			m.logger.Debug().Str("key", key).Msg("Joined in-flight fetch")
		}
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

func fetchAndStore[T any](ctx context.Context, m *Manager, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	if isZero(v) {
		if m.Enabled() && m.negativeTTL > 0 {
			m.Set(ctx, key, v, m.negativeTTL)
		}
		return v, nil
	}

	m.Set(ctx, key, v, ttl)
	return v, nil
}

func isZero(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || rv.IsZero()
}

// Memoize wraps fn so results are cached under keyFn(arg) for ttl.
func Memoize[A, R any](m *Manager, fn func(context.Context, A) (R, error), keyFn func(A) string, ttl time.Duration) func(context.Context, A) (R, error) {
	return func(ctx context.Context, arg A) (R, error) {
		return GetOrFetch(ctx, m, keyFn(arg), ttl, func(ctx context.Context) (R, error) {
			return fn(ctx, arg)
		})
	}
}
