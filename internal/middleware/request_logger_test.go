//go:build !integration

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/mocks"
)

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   string
	}{
		{name: "2xx returns info", statusCode: 200, expected: "info"},
		{name: "3xx returns info", statusCode: 301, expected: "info"},
		{name: "4xx returns warn", statusCode: 400, expected: "warn"},
		{name: "404 returns warn", statusCode: 404, expected: "warn"},
		{name: "5xx returns error", statusCode: 500, expected: "error"},
		{name: "503 returns error", statusCode: 503, expected: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.statusCode))
		})
	}
}

// captureLogs returns a logging mock that forwards every stored entry.
func captureLogs(t *testing.T) (*mocks.MockLoggingService, <-chan *model.LogEntry) {
	t.Helper()
	StopAsyncLogger()

	entries := make(chan *model.LogEntry, 4)
	svc := &mocks.MockLoggingService{}
	svc.On("CreateLog", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entries <- args.Get(1).(*model.LogEntry)
	}).Return(nil)
	return svc, entries
}

func waitEntry(t *testing.T, entries <-chan *model.LogEntry) *model.LogEntry {
	t.Helper()
	select {
	case entry := <-entries:
		return entry
	case <-time.After(time.Second):
		t.Fatal("no activity log entry written")
		return nil
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		statusCode  int
		cacheHeader string
		handlerErr  error
		wantLevel   string
	}{
		{name: "successful request logs info", statusCode: http.StatusOK, cacheHeader: CacheMiss, wantLevel: "info"},
		{name: "cache hit is recorded", statusCode: http.StatusOK, cacheHeader: CacheHit, wantLevel: "info"},
		{name: "client error logs warn", statusCode: http.StatusNotFound, wantLevel: "warn"},
		{name: "server error carries the error", statusCode: http.StatusBadGateway, handlerErr: errors.New("upstream down"), wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, entries := captureLogs(t)

			router := gin.New()
			router.Use(RequestID())
			router.Use(RequestLogger(svc))
			router.GET("/customers/:customerId", func(c *gin.Context) {
				if tt.cacheHeader != "" {
					c.Header(CacheHeader, tt.cacheHeader)
				}
				if tt.handlerErr != nil {
					_ = c.Error(tt.handlerErr)
				}
				c.Status(tt.statusCode)
			})

			req := httptest.NewRequest(http.MethodGet, "/customers/rec1?x=1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.statusCode, w.Code)

			entry := waitEntry(t, entries)
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "/customers/rec1", entry.Path)
			assert.Equal(t, http.MethodGet, entry.Method)
			assert.Equal(t, tt.statusCode, entry.StatusCode)
			assert.Equal(t, tt.cacheHeader, entry.CacheStatus)
			assert.NotEmpty(t, entry.RequestID)
			if tt.handlerErr != nil {
				assert.Equal(t, tt.handlerErr.Error(), entry.Error)
			} else {
				assert.Empty(t, entry.Error)
			}
		})
	}
}

func TestRequestLogger_WithCustomer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, entries := captureLogs(t)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(CustomerIDKey, "recCUST1")
		c.Set(CustomerEmailKey, "jane@acme.test")
		c.Next()
	})
	router.Use(RequestLogger(svc))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	entry := waitEntry(t, entries)
	assert.Equal(t, "recCUST1", entry.CustomerID)
	assert.Equal(t, "jane@acme.test", entry.CustomerEmail)
}

func TestRequestLogger_NoLoggingService(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger(nil))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger_UsesAsyncLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &mocks.MockLoggingService{}
	svc.On("CreateLogs", mock.Anything, mock.Anything).Return(nil)
	InitAsyncLogger(svc, AsyncLoggerConfig{NumWorkers: 1, FlushInterval: time.Hour})

	router := gin.New()
	router.Use(RequestLogger(svc))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	al := GetAsyncLogger()
	StopAsyncLogger()

	enqueued, _, written, _ := al.Stats()
	assert.Equal(t, int64(1), enqueued)
	assert.Equal(t, int64(1), written)
	svc.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
}
