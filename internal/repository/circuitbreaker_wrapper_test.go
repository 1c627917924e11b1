//go:build !integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
)

type failingLogsRepository struct {
	calls int
}

var errMongoDown = errors.New("mongo down")

func (r *failingLogsRepository) Create(context.Context, *LogEntryDocument) error {
	r.calls++
	return errMongoDown
}

func (r *failingLogsRepository) CreateMany(context.Context, []*LogEntryDocument) error {
	r.calls++
	return errMongoDown
}

func (r *failingLogsRepository) Query(context.Context, LogQueryOptions) ([]*LogEntryDocument, error) {
	r.calls++
	return nil, errMongoDown
}

func (r *failingLogsRepository) Count(context.Context, LogQueryOptions) (int64, error) {
	r.calls++
	return 0, errMongoDown
}

func (r *failingLogsRepository) CountByCacheStatus(context.Context, LogQueryOptions) (map[string]int64, error) {
	r.calls++
	return nil, errMongoDown
}

func TestLogsRepositoryWithCircuitBreaker(t *testing.T) {
	ctx := context.Background()
	inner := &failingLogsRepository{}
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		Name:             "logs-test",
	})
	repo := NewLogsRepositoryWithCircuitBreaker(inner, cb)

	t.Run("failures are returned while closed", func(t *testing.T) {
		assert.ErrorIs(t, repo.Create(ctx, &LogEntryDocument{}), errMongoDown)
		assert.ErrorIs(t, repo.CreateMany(ctx, []*LogEntryDocument{{}}), errMongoDown)
		assert.True(t, cb.IsOpen())
	})

	t.Run("writes are dropped while open", func(t *testing.T) {
		before := inner.calls
		assert.NoError(t, repo.Create(ctx, &LogEntryDocument{}))
		assert.NoError(t, repo.CreateMany(ctx, []*LogEntryDocument{{}}))
		assert.Equal(t, before, inner.calls)
	})

	t.Run("reads report the open circuit", func(t *testing.T) {
		_, err := repo.Query(ctx, LogQueryOptions{})
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		_, err = repo.Count(ctx, LogQueryOptions{})
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		_, err = repo.CountByCacheStatus(ctx, LogQueryOptions{})
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	})

	require.Same(t, cb, repo.GetCircuitBreaker())
}
