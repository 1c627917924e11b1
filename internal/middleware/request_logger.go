package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/logger"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// RequestLogger returns a middleware that logs one structured line per
// request, including whether the response came from the response cache. When
// a logging service is given the request is also stored in the activity log,
// through the async logger when one is running.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		entry := &model.LogEntry{
			Timestamp:     time.Now(),
			Level:         getLogLevel(statusCode),
			Message:       "HTTP request",
			RequestID:     GetRequestID(c),
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			StatusCode:    statusCode,
			Duration:      latency.Milliseconds(),
			IP:            c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			CacheStatus:   c.Writer.Header().Get(CacheHeader),
			CustomerID:    GetCustomerID(c),
			CustomerEmail: GetCustomerEmail(c),
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.Last().Error()
		}

		l := logger.Logger()
		var event *zerolog.Event
		switch {
		case statusCode >= 500:
			event = l.Error()
		case statusCode >= 400:
			event = l.Warn()
		default:
			event = l.Info()
		}
		event.
			Str("request_id", entry.RequestID).
			Str("method", entry.Method).
			Str("path", entry.Path).
			Int("status_code", statusCode).
			Int64("duration_ms", entry.Duration).
			Str("ip", entry.IP).
			Str("cache_status", entry.CacheStatus).
			Str("customer_id", entry.CustomerID).
			Msg("HTTP request")

		if loggingService == nil {
			return
		}
		if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
			asyncLogger.Log(entry)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = loggingService.CreateLog(ctx, entry)
		}()
	}
}

// getLogLevel returns the log level based on HTTP status code.
func getLogLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "error"
	case statusCode >= 400:
		return "warn"
	default:
		return "info"
	}
}
