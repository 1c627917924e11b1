package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/metrics"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit  int
	RateWindow time.Duration
	// Limiter, when set, is used instead of one built from RateLimit so the
	// caller can stop its cleanup goroutine.
	Limiter        *middleware.ShardedRateLimiter
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	LoggingService service.LoggingService
	// Cache backs the response cache and invalidation. Nil disables both.
	Cache       *cache.Manager
	Calculator  service.CreditCalculator
	AuthService service.AuthService
	// Records serves the portal. Nil leaves the portal routes unregistered.
	Records *service.RecordService
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		RequestTimeout: middleware.DefaultTimeoutConfig().Timeout,
		Calculator:     service.NewCreditCalculatorService(),
	}
}

// NewRouter creates and configures the Gin router.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	api.Use(middleware.Timeout(middleware.TimeoutConfig{Timeout: cfg.RequestTimeout}))

	calculator := cfg.Calculator
	if calculator == nil {
		calculator = service.NewCreditCalculatorService()
	}
	handler := NewHandler(calculator, cfg.LoggingService)

	NewEstimatorRoutes(handler, cfg.AuthService, cfg.LoggingService, cfg.Cache).RegisterPublicRoutes(api)

	if cfg.AuthService != nil && cfg.Records != nil {
		NewPortalRoutes(cfg.Records, cfg.AuthService, cfg.LoggingService, cfg.Cache).RegisterProtectedRoutes(api)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Authorization", "accept", "Cache-Control", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", middleware.CacheHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	// Compression wraps the writer before the response cache sees it, so
	// cached bodies are stored uncompressed.
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(StatusForError),
	)

	limiter := cfg.Limiter
	if limiter == nil && cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	}
	if limiter != nil {
		router.Use(limiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, documentation and
// admin routes. Admin routes exist only behind basic auth.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler == nil {
		healthHandler = NewHealthHandler()
	}
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser == "" || cfg.SwaggerPass == "" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		return
	}

	accounts := gin.BasicAuth(gin.Accounts{cfg.SwaggerUser: cfg.SwaggerPass})
	router.Group("/swagger", accounts).GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Cache statistics come from the activity log and share the docs credentials.
	if cfg.LoggingService != nil {
		router.Group("/admin", accounts).GET("/cache/stats", NewStatsHandler(cfg.LoggingService).CacheStats)
	}
}
