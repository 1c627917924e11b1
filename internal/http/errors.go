package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/guttosm/rdcredit-service/internal/airtable"
	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
	"github.com/guttosm/rdcredit-service/internal/i18n"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// StatusForError maps a service or record-store error to a response status.
func StatusForError(err error) int {
	var apiErr *airtable.APIError

	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, airtable.ErrUnavailable), errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, airtable.ErrNotFound), errors.Is(err, service.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		// 422 is a rejected field value; other 4xx are our own credentials or
		// schema drifting from the base.
		if apiErr.StatusCode == http.StatusUnprocessableEntity {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorKeyForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return i18n.ErrKeyInvalidRequest
	case http.StatusNotFound:
		return i18n.ErrKeyNotFound
	case http.StatusGatewayTimeout:
		return i18n.ErrKeyTimeout
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return i18n.ErrKeyUpstreamUnavailable
	default:
		return i18n.ErrKeyInternalError
	}
}
