package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/repository"
)

// LoggingService records and reads the request activity log.
type LoggingService interface {
	// CreateLog stores a single log entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error

	// CreateLogs stores multiple log entries in bulk.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error

	// QueryLogs retrieves log entries matching the query options.
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)

	// CountLogs returns the count of log entries matching the query options.
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)

	// CacheStats reports how many matching requests were served from the
	// response cache.
	CacheStats(ctx context.Context, opts model.LogQueryOptions) (*model.CacheStats, error)
}

// LoggingServiceImpl implements the LoggingService interface.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a new logging service implementation.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{
		repo: repo,
	}
}

// CreateLog stores a single log entry.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	return s.repo.Create(ctx, toDocument(entry))
}

// CreateLogs stores multiple log entries in bulk.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]*repository.LogEntryDocument, len(entries))
	for i, entry := range entries {
		docs[i] = toDocument(entry)
	}

	return s.repo.CreateMany(ctx, docs)
}

// QueryLogs retrieves log entries matching the query options.
func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	docs, err := s.repo.Query(ctx, toRepoOptions(opts))
	if err != nil {
		return nil, err
	}

	entries := make([]model.LogEntry, len(docs))
	for i, doc := range docs {
		entries[i] = fromDocument(doc)
	}

	return entries, nil
}

// CountLogs returns the count of log entries matching the query options.
func (s *LoggingServiceImpl) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return s.repo.Count(ctx, toRepoOptions(opts))
}

// CacheStats aggregates X-Cache outcomes of the matching requests.
func (s *LoggingServiceImpl) CacheStats(ctx context.Context, opts model.LogQueryOptions) (*model.CacheStats, error) {
	counts, err := s.repo.CountByCacheStatus(ctx, toRepoOptions(opts))
	if err != nil {
		return nil, err
	}

	stats := &model.CacheStats{
		Hits:   counts[model.CacheStatusHit],
		Misses: counts[model.CacheStatusMiss],
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(total)
	}
	return stats, nil
}

func toRepoOptions(opts model.LogQueryOptions) repository.LogQueryOptions {
	return repository.LogQueryOptions{
		RequestID:  opts.RequestID,
		CustomerID: opts.CustomerID,
		Level:      opts.Level,
		Method:     opts.Method,
		Path:       opts.Path,
		StartTime:  opts.StartTime,
		EndTime:    opts.EndTime,
		Limit:      opts.Limit,
		Skip:       opts.Skip,
	}
}

func toDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	return &repository.LogEntryDocument{
		ID:            entry.ID,
		Timestamp:     entry.Timestamp,
		Level:         entry.Level,
		Message:       entry.Message,
		RequestID:     entry.RequestID,
		Method:        entry.Method,
		Path:          entry.Path,
		StatusCode:    entry.StatusCode,
		Duration:      entry.Duration,
		IP:            entry.IP,
		UserAgent:     entry.UserAgent,
		Error:         entry.Error,
		CacheStatus:   entry.CacheStatus,
		CustomerID:    entry.CustomerID,
		CustomerEmail: entry.CustomerEmail,
		ActionType:    entry.ActionType,
		Fields:        entry.Fields,
	}
}

func fromDocument(doc *repository.LogEntryDocument) model.LogEntry {
	return model.LogEntry{
		ID:            doc.ID,
		Timestamp:     doc.Timestamp,
		Level:         doc.Level,
		Message:       doc.Message,
		RequestID:     doc.RequestID,
		Method:        doc.Method,
		Path:          doc.Path,
		StatusCode:    doc.StatusCode,
		Duration:      doc.Duration,
		IP:            doc.IP,
		UserAgent:     doc.UserAgent,
		Error:         doc.Error,
		CacheStatus:   doc.CacheStatus,
		CustomerID:    doc.CustomerID,
		CustomerEmail: doc.CustomerEmail,
		ActionType:    doc.ActionType,
		Fields:        doc.Fields,
	}
}
