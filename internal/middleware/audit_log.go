package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// AuditLog records a customer action such as a session lookup or a record
// update in the activity log.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType, message string, fields map[string]interface{}) {
	writeAudit(loggingService, newAuditEntry(c, "info", actionType, message, fields))
}

// AuditLogError records a failed customer action.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType, message string, err error, fields map[string]interface{}) {
	entry := newAuditEntry(c, "error", actionType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	writeAudit(loggingService, entry)
}

func newAuditEntry(c *gin.Context, level, actionType, message string, fields map[string]interface{}) *model.LogEntry {
	return &model.LogEntry{
		Timestamp:     time.Now(),
		Level:         level,
		Message:       message,
		RequestID:     GetRequestID(c),
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		IP:            c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
		CustomerID:    GetCustomerID(c),
		CustomerEmail: GetCustomerEmail(c),
		ActionType:    actionType,
		Fields:        fields,
	}
}

func writeAudit(loggingService service.LoggingService, entry *model.LogEntry) {
	if loggingService == nil {
		return
	}
	if asyncLogger := GetAsyncLogger(); asyncLogger != nil && asyncLogger.Log(entry) {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
