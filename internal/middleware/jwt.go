package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/domain/dto"
	"github.com/guttosm/rdcredit-service/internal/i18n"
)

// Context keys set by JWTAuth.
const (
	CustomerIDKey    = "customer_id"
	CustomerEmailKey = "customer_email"
	ClaimsKey        = "session_claims"
)

// TokenValidator validates session tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// JWTAuth returns a middleware that requires a valid bearer session token.
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, i18n.ErrKeyTokenRequired)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			abortWithError(c, http.StatusUnauthorized, i18n.ErrKeyInvalidToken)
			return
		}
		if tokenString = strings.TrimSpace(tokenString); tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, i18n.ErrKeyTokenRequired)
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, i18n.ErrKeyInvalidToken)
			return
		}

		c.Set(CustomerIDKey, claims.CustomerID)
		c.Set(CustomerEmailKey, claims.Email)
		c.Set(ClaimsKey, claims)

		c.Next()
	}
}

// GetCustomerID returns the customer the session belongs to, or "".
func GetCustomerID(c *gin.Context) string {
	return c.GetString(CustomerIDKey)
}

// GetCustomerEmail returns the email of the session, or "".
func GetCustomerEmail(c *gin.Context) string {
	return c.GetString(CustomerEmailKey)
}

// abortWithError writes the translated error envelope and aborts the chain.
func abortWithError(c *gin.Context, status int, key string) {
	message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
	errorResp := dto.NewError(dto.ErrCodeFromStatus(status), message).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(status, errorResp)
}
