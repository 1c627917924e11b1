package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
)

const healthCheckTimeout = 2 * time.Second

// Readiness states.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusDown     = "unavailable"
)

var errCacheUnreachable = errors.New("cache unreachable")

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// Check calls f.
func (f HealthCheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

type registeredCheck struct {
	checker  HealthChecker
	critical bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checks          map[string]registeredCheck
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checks:          make(map[string]registeredCheck),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// RegisterChecker adds a dependency check. A failing critical check makes the
// service not ready; a failing non-critical one only degrades it.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker, critical bool) {
	h.checks[name] = registeredCheck{checker: checker, critical: critical}
}

// RegisterCache reports the response cache. The service keeps serving from
// the record store without it, so it is never critical.
func (h *HealthHandler) RegisterCache(m *cache.Manager) {
	if !m.Enabled() {
		return
	}
	h.RegisterChecker("cache", HealthCheckFunc(func(ctx context.Context) error {
		if !m.Healthy(ctx) {
			return errCacheUnreachable
		}
		return nil
	}), false)
}

// RegisterCircuitBreaker registers a circuit breaker for health monitoring.
// An open breaker makes the service not ready.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb != nil {
		h.circuitBreakers[name] = cb
	}
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the process is running.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": StatusOK})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Reports dependency health. An unreachable cache degrades the service but keeps it ready; an open record-store circuit makes it unavailable.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready, possibly degraded"
// @Failure     503 {object} map[string]interface{} "Service is not ready"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	overall := StatusOK
	checks := make(map[string]interface{})

	for name, rc := range h.checks {
		if err := rc.checker.Check(ctx); err != nil {
			checks[name] = err.Error()
			if rc.critical {
				overall = StatusDown
			} else if overall == StatusOK {
				overall = StatusDegraded
			}
			continue
		}
		checks[name] = StatusOK
	}

	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		checks[name+"_circuit"] = stats.State
		if cb.IsOpen() {
			overall = StatusDown
		}
	}

	if len(checks) == 0 {
		checks["service"] = StatusOK
	}

	status := http.StatusOK
	if overall == StatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
