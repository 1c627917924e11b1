package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/domain/dto"
	"github.com/guttosm/rdcredit-service/internal/i18n"
	"github.com/guttosm/rdcredit-service/internal/logger"
)

// ErrorHandler writes the error envelope for handlers that recorded an error
// with c.Error without writing a response. statusFor maps the error to a
// status; nil maps everything to 500.
func ErrorHandler(statusFor UpstreamErrorStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		status := http.StatusInternalServerError
		if statusFor != nil {
			status = statusFor(err.Err)
		}

		log := logger.Logger()
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("request_id", GetRequestID(c)).
			Err(err.Err).
			Int("status_code", status).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		message := i18n.GetTranslator().Translate(errorKeyFor(status), i18n.GetLocale(c))
		c.JSON(status, dto.NewError(dto.ErrCodeFromStatus(status), message).WithRequestID(GetRequestID(c)))
	}
}

// errorKeyFor returns the message key of a status.
func errorKeyFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return i18n.ErrKeyInvalidRequest
	case http.StatusUnauthorized:
		return i18n.ErrKeyUnauthorized
	case http.StatusForbidden:
		return i18n.ErrKeyForbidden
	case http.StatusNotFound:
		return i18n.ErrKeyNotFound
	case http.StatusTooManyRequests:
		return i18n.ErrKeyRateLimitExceeded
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return i18n.ErrKeyUpstreamUnavailable
	case http.StatusGatewayTimeout:
		return i18n.ErrKeyTimeout
	default:
		return i18n.ErrKeyInternalError
	}
}
