//go:build !integration

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/rdcredit-service/internal/domain/dto"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/mocks"
)

func TestStatsHandler_CacheStats(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		setupMock  func(m *mocks.MockLoggingService)
		wantStatus int
		wantHits   int64
	}{
		{
			name:  "defaults to the last day",
			query: "",
			setupMock: func(m *mocks.MockLoggingService) {
				m.On("CacheStats", mock.Anything, mock.MatchedBy(func(opts model.LogQueryOptions) bool {
					return opts.StartTime != nil && opts.StartTime.Equal(now.Add(-24*time.Hour)) && opts.CustomerID == ""
				})).Return(&model.CacheStats{Hits: 3, Misses: 1, HitRatio: 0.75}, nil)
			},
			wantStatus: http.StatusOK,
			wantHits:   3,
		},
		{
			name:  "filters by customer, path and window",
			query: "?customerId=recCUS1&path=/api/pricing&since=1h",
			setupMock: func(m *mocks.MockLoggingService) {
				m.On("CacheStats", mock.Anything, mock.MatchedBy(func(opts model.LogQueryOptions) bool {
					return opts.CustomerID == "recCUS1" && opts.Path == "/api/pricing" &&
						opts.StartTime != nil && opts.StartTime.Equal(now.Add(-time.Hour))
				})).Return(&model.CacheStats{Hits: 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantHits:   1,
		},
		{
			name:       "rejects an invalid window",
			query:      "?since=yesterday",
			setupMock:  func(*mocks.MockLoggingService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "rejects a negative window",
			query:      "?since=-1h",
			setupMock:  func(*mocks.MockLoggingService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "log store failure",
			query: "",
			setupMock: func(m *mocks.MockLoggingService) {
				m.On("CacheStats", mock.Anything, mock.Anything).Return(nil, errors.New("no primary"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logging := &mocks.MockLoggingService{}
			tt.setupMock(logging)

			h := NewStatsHandler(logging)
			h.now = func() time.Time { return now }

			router := gin.New()
			router.GET("/admin/cache/stats", h.CacheStats)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/cache/stats"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			logging.AssertExpectations(t)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Data model.CacheStats `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantHits, resp.Data.Hits)
		})
	}
}

func TestNewRouter_AdminStatsRoute(t *testing.T) {
	tests := []struct {
		name      string
		user      string
		logging   bool
		wantRoute bool
	}{
		{name: "registered with credentials and activity log", user: "ops", logging: true, wantRoute: true},
		{name: "absent without credentials", logging: true},
		{name: "absent without activity log", user: "ops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRouterConfig()
			cfg.SwaggerUser = tt.user
			cfg.SwaggerPass = "secret"
			if tt.logging {
				cfg.LoggingService = &mocks.MockLoggingService{}
			}

			routes := make(map[string]bool)
			for _, r := range NewRouter(nil, cfg).Routes() {
				routes[r.Method+" "+r.Path] = true
			}
			assert.Equal(t, tt.wantRoute, routes["GET /admin/cache/stats"])
		})
	}
}

func TestNewRouter_AdminStatsRequiresCredentials(t *testing.T) {
	logging := &mocks.MockLoggingService{}
	logging.On("CreateLog", mock.Anything, mock.Anything).Return(nil).Maybe()
	logging.On("CacheStats", mock.Anything, mock.Anything).Return(&model.CacheStats{Hits: 2}, nil).Maybe()

	cfg := DefaultRouterConfig()
	cfg.SwaggerUser = "ops"
	cfg.SwaggerPass = "secret"
	cfg.LoggingService = logging
	router := NewRouter(nil, cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/cache/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/cache/stats", nil)
	req.SetBasicAuth("ops", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Data.(map[string]interface{})["hits"])
}
