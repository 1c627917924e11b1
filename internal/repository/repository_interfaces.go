package repository

import "context"

// LogsRepositoryInterface defines the interface for activity-log storage.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
	CountByCacheStatus(ctx context.Context, opts LogQueryOptions) (map[string]int64, error)
}
