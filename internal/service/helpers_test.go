package service

import (
	"testing"

	"github.com/guttosm/rdcredit-service/internal/cache"
)

func newTestCache(t *testing.T, opts ...cache.Option) *cache.Manager {
	t.Helper()
	store := cache.NewMemoryStore(1000, 4)
	m := cache.NewManager(store, opts...)
	t.Cleanup(func() {
		_ = m.Close()
	})
	return m
}
