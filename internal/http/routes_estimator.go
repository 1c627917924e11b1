package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// EstimatorRoutes registers the public estimator and the email gate.
type EstimatorRoutes struct {
	handler     *Handler
	authHandler *AuthHandler
	cache       *cache.Manager
}

// NewEstimatorRoutes creates a new EstimatorRoutes instance. authService may
// be nil, in which case the email gate is not registered.
func NewEstimatorRoutes(handler *Handler, authService service.AuthService, loggingService service.LoggingService, manager *cache.Manager) *EstimatorRoutes {
	r := &EstimatorRoutes{handler: handler, cache: manager}
	if authService != nil {
		r.authHandler = NewAuthHandler(authService, loggingService)
	}
	return r
}

// RegisterPublicRoutes registers routes open to anonymous visitors.
func (r *EstimatorRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/calculate", r.handler.CalculateCredit)
	rg.GET("/pricing",
		middleware.CacheResponse(r.cache, middleware.ResponseCacheConfig{TTL: cache.TTLHour}),
		r.handler.Pricing,
	)

	if r.authHandler != nil {
		rg.POST("/auth/lookup", r.authHandler.Lookup)
	}
}
