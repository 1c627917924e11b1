package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity action types.
const (
	ActionLookup    = "lookup"
	ActionCalculate = "calculate"
	ActionUpdate    = "update"
	ActionView      = "view"
)

// X-Cache outcomes recorded on activity-log entries.
const (
	CacheStatusHit  = "HIT"
	CacheStatusMiss = "MISS"
)

// CacheStats summarises response-cache outcomes over a set of requests.
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hitRatio"`
}

// LogEntry is one activity-log document. Context that does not fit a
// dedicated field goes in Fields.
type LogEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	Level       string             `bson:"level" json:"level"`
	Message     string             `bson:"message" json:"message"`
	RequestID   string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method      string             `bson:"method,omitempty" json:"method,omitempty"`
	Path        string             `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode  int                `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration    int64              `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP          string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent   string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	CacheStatus string             `bson:"cache_status,omitempty" json:"cache_status,omitempty"`
	// Set on requests made with a session token.
	CustomerID    string                 `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	CustomerEmail string                 `bson:"customer_email,omitempty" json:"customer_email,omitempty"`
	ActionType    string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Fields        map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField sets one entry in Fields, creating the map if needed.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields merges fields into Fields.
func (e *LogEntry) WithFields(fields map[string]interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// LogQueryOptions filters activity-log queries.
type LogQueryOptions struct {
	RequestID  string
	CustomerID string
	Level      string
	Method     string
	Path       string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}
