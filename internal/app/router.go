package app

import (
	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/airtable"
	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/http"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the health handler and router configuration.
// upstream and dbComponents may be nil.
func InitializeRouter(
	cfg config.Config,
	services *ServiceComponents,
	manager *cache.Manager,
	upstream *airtable.Client,
	dbComponents *DatabaseComponents,
) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterCache(manager)

	if upstream != nil {
		healthHandler.RegisterCircuitBreaker("airtable", upstream.Breaker())
	}

	var loggingService service.LoggingService
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
		healthHandler.RegisterChecker("mongodb", dbComponents.healthCheck(), false)
	}

	var limiter *middleware.ShardedRateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		Limiter:        limiter,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    cfg.Server.SwaggerUser,
		SwaggerPass:    cfg.Server.SwaggerPass,
		LoggingService: loggingService,
		Cache:          manager,
		Calculator:     services.Calculator,
		AuthService:    services.Auth,
		Records:        services.Records,
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
