package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/i18n"
)

// Route parameters addressing customer-owned records.
const (
	CustomerIDParam = "customerId"
	CompanyIDParam  = "companyId"
)

// CompanyLookup resolves a company by id; nil means it does not exist.
type CompanyLookup func(ctx context.Context, companyID string) (*model.Company, error)

// UpstreamErrorStatus maps a record-store error to a response status.
type UpstreamErrorStatus func(err error) int

// RequireSelf rejects requests whose customerId route parameter is not the
// session's customer. Must run after JWTAuth.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(CustomerIDParam) != GetCustomerID(c) {
			abortWithError(c, http.StatusForbidden, i18n.ErrKeyNotOwner)
			return
		}
		c.Next()
	}
}

// RequireCompanyOwner rejects requests whose companyId route parameter names a
// company owned by another customer. The company is resolved through lookup,
// which is expected to be cached. Must run after JWTAuth.
func RequireCompanyOwner(lookup CompanyLookup, statusFor UpstreamErrorStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.Param(CompanyIDParam)

		company, err := lookup(c.Request.Context(), companyID)
		if err != nil {
			status := statusFor(err)
			log.Warn().Err(err).
				Str("request_id", GetRequestID(c)).
				Str("company_id", companyID).
				Msg("Company ownership lookup failed")
			abortWithError(c, status, errorKeyFor(status))
			return
		}
		if company == nil {
			abortWithError(c, http.StatusNotFound, i18n.ErrKeyCompanyNotFound)
			return
		}
		if company.CustomerID != GetCustomerID(c) {
			abortWithError(c, http.StatusForbidden, i18n.ErrKeyNotOwner)
			return
		}

		c.Next()
	}
}
