//go:build !integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/repository"
)

type MockLogsRepository struct {
	mock.Mock
}

func (m *MockLogsRepository) Create(ctx context.Context, entry *repository.LogEntryDocument) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogsRepository) CreateMany(ctx context.Context, entries []*repository.LogEntryDocument) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepository) Query(ctx context.Context, opts repository.LogQueryOptions) ([]*repository.LogEntryDocument, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	docs, _ := args.Get(0).([]*repository.LogEntryDocument)
	return docs, args.Error(1)
}

func (m *MockLogsRepository) Count(ctx context.Context, opts repository.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	count, _ := args.Get(0).(int64)
	return count, args.Error(1)
}

func (m *MockLogsRepository) CountByCacheStatus(ctx context.Context, opts repository.LogQueryOptions) (map[string]int64, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func portalRequestEntry() *model.LogEntry {
	return &model.LogEntry{
		Level:       "info",
		Message:     "Request completed",
		RequestID:   "req-portal-1",
		Method:      "GET",
		Path:        "/api/customers/recCUST1",
		StatusCode:  200,
		CacheStatus: model.CacheStatusHit,
		CustomerID:  "recCUST1",
	}
}

func TestLoggingService_CreateLog(t *testing.T) {
	t.Run("fills id and timestamp and keeps portal fields", func(t *testing.T) {
		repo := new(MockLogsRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.LogEntryDocument) bool {
			return !doc.ID.IsZero() && !doc.Timestamp.IsZero() &&
				doc.CustomerID == "recCUST1" && doc.CacheStatus == model.CacheStatusHit
		})).Return(nil).Once()

		entry := portalRequestEntry()
		require.NoError(t, NewLoggingService(repo).CreateLog(context.Background(), entry))

		assert.False(t, entry.ID.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("repository error is returned", func(t *testing.T) {
		repo := new(MockLogsRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("no primary")).Once()

		err := NewLoggingService(repo).CreateLog(context.Background(), portalRequestEntry())

		assert.EqualError(t, err, "no primary")
	})
}

func TestLoggingService_CreateLogs(t *testing.T) {
	tests := []struct {
		name    string
		entries []*model.LogEntry
		repoErr error
		calls   int
	}{
		{name: "empty batch skips the repository", entries: nil},
		{name: "batch written at once", entries: []*model.LogEntry{portalRequestEntry(), portalRequestEntry()}, calls: 1},
		{name: "batch error", entries: []*model.LogEntry{portalRequestEntry()}, repoErr: errors.New("timeout"), calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockLogsRepository)
			if tt.calls > 0 {
				repo.On("CreateMany", mock.Anything, mock.MatchedBy(func(docs []*repository.LogEntryDocument) bool {
					return len(docs) == len(tt.entries)
				})).Return(tt.repoErr).Times(tt.calls)
			}

			err := NewLoggingService(repo).CreateLogs(context.Background(), tt.entries)

			assert.Equal(t, tt.repoErr, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_QueryLogs(t *testing.T) {
	since := time.Now().Add(-time.Hour)

	t.Run("filters are passed through and documents mapped", func(t *testing.T) {
		repo := new(MockLogsRepository)
		repo.On("Query", mock.Anything, repository.LogQueryOptions{CustomerID: "recCUST1", StartTime: &since, Limit: 20}).
			Return([]*repository.LogEntryDocument{
				{ID: primitive.NewObjectID(), CustomerID: "recCUST1", Path: "/api/customers/recCUST1", CacheStatus: model.CacheStatusMiss},
			}, nil).Once()

		entries, err := NewLoggingService(repo).QueryLogs(context.Background(),
			model.LogQueryOptions{CustomerID: "recCUST1", StartTime: &since, Limit: 20})

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, model.CacheStatusMiss, entries[0].CacheStatus)
		assert.Equal(t, "/api/customers/recCUST1", entries[0].Path)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockLogsRepository)
		repo.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("cursor closed")).Once()

		entries, err := NewLoggingService(repo).QueryLogs(context.Background(), model.LogQueryOptions{})

		assert.Error(t, err)
		assert.Nil(t, entries)
	})
}

func TestLoggingService_CountLogs(t *testing.T) {
	repo := new(MockLogsRepository)
	repo.On("Count", mock.Anything, repository.LogQueryOptions{Path: "/api/pricing"}).Return(int64(7), nil).Once()
	repo.On("Count", mock.Anything, repository.LogQueryOptions{Level: "error"}).Return(int64(0), errors.New("timeout")).Once()
	svc := NewLoggingService(repo)

	count, err := svc.CountLogs(context.Background(), model.LogQueryOptions{Path: "/api/pricing"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	_, err = svc.CountLogs(context.Background(), model.LogQueryOptions{Level: "error"})
	assert.Error(t, err)
}

func TestLoggingService_CacheStats(t *testing.T) {
	t.Run("computes hit ratio for a customer", func(t *testing.T) {
		mockRepo := new(MockLogsRepository)
		mockRepo.On("CountByCacheStatus", mock.Anything, mock.MatchedBy(func(opts repository.LogQueryOptions) bool {
			return opts.CustomerID == "recCUS1"
		})).Return(map[string]int64{"HIT": 3, "MISS": 1}, nil)
		service := NewLoggingService(mockRepo)

		stats, err := service.CacheStats(context.Background(), model.LogQueryOptions{CustomerID: "recCUS1"})

		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
		assert.InDelta(t, 0.75, stats.HitRatio, 1e-9)
		mockRepo.AssertExpectations(t)
	})

	t.Run("no cached traffic yields zero ratio", func(t *testing.T) {
		mockRepo := new(MockLogsRepository)
		mockRepo.On("CountByCacheStatus", mock.Anything, mock.Anything).Return(map[string]int64{}, nil)
		service := NewLoggingService(mockRepo)

		stats, err := service.CacheStats(context.Background(), model.LogQueryOptions{})

		require.NoError(t, err)
		assert.Zero(t, stats.HitRatio)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(MockLogsRepository)
		mockRepo.On("CountByCacheStatus", mock.Anything, mock.Anything).Return(nil, errors.New("database error"))
		service := NewLoggingService(mockRepo)

		stats, err := service.CacheStats(context.Background(), model.LogQueryOptions{})

		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}

func TestToDocument(t *testing.T) {
	t.Run("creates ID and timestamp if zero", func(t *testing.T) {
		entry := &model.LogEntry{Level: "info", Message: "Test"}
		doc := toDocument(entry)
		assert.False(t, doc.ID.IsZero())
		assert.False(t, doc.Timestamp.IsZero())
	})

	t.Run("preserves existing ID and timestamp", func(t *testing.T) {
		id := primitive.NewObjectID()
		timestamp := time.Now().Add(-1 * time.Hour)
		doc := toDocument(&model.LogEntry{ID: id, Timestamp: timestamp})
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, timestamp, doc.Timestamp)
	})
}

func TestDocumentRoundTrip(t *testing.T) {
	entry := &model.LogEntry{
		ID:            primitive.NewObjectID(),
		Timestamp:     time.Now().Truncate(time.Millisecond),
		Level:         "info",
		Message:       "Request completed",
		RequestID:     "req-123",
		Method:        "GET",
		Path:          "/api/customers/recCUS1",
		StatusCode:    200,
		Duration:      50,
		IP:            "127.0.0.1",
		UserAgent:     "test-agent",
		CacheStatus:   model.CacheStatusHit,
		CustomerID:    "recCUS1",
		CustomerEmail: "ada@example.com",
		ActionType:    model.ActionView,
		Fields:        map[string]interface{}{"key": "value"},
	}

	assert.Equal(t, *entry, fromDocument(toDocument(entry)))
}
