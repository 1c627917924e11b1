package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/domain/dto"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/i18n"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// AuthHandler provides the email gate of the customer portal.
type AuthHandler struct {
	authService    service.AuthService
	loggingService service.LoggingService
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(authService service.AuthService, loggingService service.LoggingService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		loggingService: loggingService,
	}
}

// Lookup handles POST /api/auth/lookup requests.
//
// @Summary      Start a portal session
// @Description  Looks the customer up by email and returns a session token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LookupRequest true "Customer email"
// @Success      200 {object} dto.SuccessResponse{data=dto.LookupResponse} "Session issued"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid email"
// @Failure      404 {object} dto.ErrorResponse "No customer with this email"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Router       /api/auth/lookup [post]
func (h *AuthHandler) Lookup(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.LookupRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	email := cache.NormalizeEmail(req.Email)

	resp, err := h.authService.Lookup(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			h.audit(c, "Lookup for unknown email", err, email)
			builder.Error(http.StatusNotFound, i18n.ErrKeyCustomerNotFound, nil)
			return
		}
		builder.Fail(err)
		return
	}

	c.Set(middleware.CustomerIDKey, resp.Customer.ID)
	c.Set(middleware.CustomerEmailKey, resp.Customer.Email)
	h.audit(c, "Portal session issued", nil, email)

	builder.SuccessOK(resp)
}

func (h *AuthHandler) audit(c *gin.Context, message string, err error, email string) {
	if h.loggingService == nil {
		return
	}
	fields := map[string]interface{}{"email": email}
	if err != nil {
		middleware.AuditLogError(h.loggingService, c, model.ActionLookup, message, err, fields)
		return
	}
	middleware.AuditLog(h.loggingService, c, model.ActionLookup, message, fields)
}
