//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
)

func TestLogsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	require.NoError(t, db.SetLogsTTL(ctx, 30*24*time.Hour))

	repo := NewLogsRepository(db)

	t.Run("create log entry", func(t *testing.T) {
		entry := &LogEntryDocument{
			ID:          primitive.NewObjectID(),
			Timestamp:   time.Now(),
			Level:       "info",
			Message:     "Request completed",
			RequestID:   "test-request-id",
			Method:      "GET",
			Path:        "/api/customers/recCUS1",
			StatusCode:  200,
			Duration:    12,
			CacheStatus: "HIT",
			CustomerID:  "recCUS1",
		}

		err := repo.Create(ctx, entry)
		assert.NoError(t, err)
		assert.False(t, entry.ID.IsZero())
	})

	t.Run("create many log entries", func(t *testing.T) {
		entries := []*LogEntryDocument{
			{Level: "info", Message: "Entry 1", RequestID: "req-1", CacheStatus: "MISS", CustomerID: "recCUS1"},
			{Level: "error", Message: "Entry 2", RequestID: "req-2"},
			{Level: "info", Message: "Entry 3", RequestID: "req-3", CacheStatus: "HIT", CustomerID: "recCUS2"},
		}

		err := repo.CreateMany(ctx, entries)
		assert.NoError(t, err)
	})

	t.Run("query by request ID", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{RequestID: "test-request-id"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "recCUS1", entries[0].CustomerID)
	})

	t.Run("query by customer", func(t *testing.T) {
		entries, err := repo.Query(ctx, LogQueryOptions{CustomerID: "recCUS1"})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("count with filter", func(t *testing.T) {
		count, err := repo.Count(ctx, LogQueryOptions{Level: "info"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("count by cache status", func(t *testing.T) {
		counts, err := repo.CountByCacheStatus(ctx, LogQueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"HIT": 2, "MISS": 1}, counts)
	})
}

func TestLogsRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	wrappedRepo := NewLogsRepositoryWithCircuitBreaker(NewLogsRepository(db), cb)

	t.Run("circuit breaker allows successful operations", func(t *testing.T) {
		err := wrappedRepo.Create(ctx, &LogEntryDocument{Level: "info", Message: "Test entry"})
		assert.NoError(t, err)
	})

	t.Run("circuit breaker stats", func(t *testing.T) {
		stats := cb.GetStats()
		assert.Equal(t, "closed", stats.State)
		assert.True(t, stats.IsHealthy)
	})
}
