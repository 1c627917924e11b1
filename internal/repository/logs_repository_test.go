//go:build !integration

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLogQueryOptions_Filter(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name string
		opts LogQueryOptions
		want bson.M
	}{
		{
			name: "empty options match everything",
			opts: LogQueryOptions{},
			want: bson.M{},
		},
		{
			name: "customer and method",
			opts: LogQueryOptions{CustomerID: "recCUS1", Method: "PUT"},
			want: bson.M{"customer_id": "recCUS1", "method": "PUT"},
		},
		{
			name: "path is a case-insensitive regex",
			opts: LogQueryOptions{Path: "/api/companies"},
			want: bson.M{"path": bson.M{"$regex": "/api/companies", "$options": "i"}},
		},
		{
			name: "time window",
			opts: LogQueryOptions{StartTime: &start, EndTime: &end},
			want: bson.M{"timestamp": bson.M{"$gte": start, "$lte": end}},
		},
		{
			name: "open-ended window",
			opts: LogQueryOptions{StartTime: &start, Level: "error"},
			want: bson.M{"timestamp": bson.M{"$gte": start}, "level": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.filter())
		})
	}
}
