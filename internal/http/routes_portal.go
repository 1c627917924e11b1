package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// PortalRoutes registers the customer portal. Every route requires a session
// addressing the caller's own records.
type PortalRoutes struct {
	handler     *RecordsHandler
	records     *service.RecordService
	authService service.AuthService
	cache       *cache.Manager
}

// NewPortalRoutes creates a new PortalRoutes instance.
func NewPortalRoutes(records *service.RecordService, authService service.AuthService, loggingService service.LoggingService, manager *cache.Manager) *PortalRoutes {
	return &PortalRoutes{
		handler:     NewRecordsHandler(records, loggingService),
		records:     records,
		authService: authService,
		cache:       manager,
	}
}

// RegisterProtectedRoutes registers the portal routes behind JWTAuth.
// Ownership checks run before the response cache so a cached body is never
// served to another customer.
func (r *PortalRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	protected := rg.Group("")
	protected.Use(middleware.JWTAuth(r.authService))

	cached := middleware.CacheResponse(r.cache, middleware.ResponseCacheConfig{TTL: cache.TTLMedium})

	customers := protected.Group("/customers/:" + middleware.CustomerIDParam)
	customers.Use(middleware.RequireSelf())
	{
		customers.GET("", cached, r.handler.GetCustomer)
		customers.PUT("", middleware.InvalidateCache(r.cache, cache.EntityCustomer), r.handler.UpdateCustomer)
		customers.GET("/company", cached, r.handler.GetCompany)
		customers.GET("/documents",
			middleware.CacheResponse(r.cache, middleware.ResponseCacheConfig{TTL: cache.TTLShort}),
			r.handler.GetDocuments,
		)
	}

	companies := protected.Group("/companies/:" + middleware.CompanyIDParam)
	companies.Use(middleware.RequireCompanyOwner(r.records.CompanyByID, StatusForError))
	{
		companies.PUT("", middleware.InvalidateCache(r.cache, cache.EntityCompany), r.handler.UpdateCompany)
		companies.GET("/expenses", cached, r.handler.GetExpenses)
		companies.PUT("/expenses", middleware.InvalidateCache(r.cache, cache.EntityExpenses), r.handler.ReplaceExpenses)
		companies.GET("/wages", cached, r.handler.GetWages)
		companies.PUT("/wages", middleware.InvalidateCache(r.cache, cache.EntityExpenses), r.handler.ReplaceWages)
	}
}
