package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/domain/dto"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/service"
)

const defaultStatsWindow = 24 * time.Hour

// StatsHandler serves response-cache statistics from the activity log.
type StatsHandler struct {
	loggingService service.LoggingService
	now            func() time.Time
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(loggingService service.LoggingService) *StatsHandler {
	return &StatsHandler{loggingService: loggingService, now: time.Now}
}

// CacheStats handles GET /admin/cache/stats requests.
//
// @Summary      Response cache statistics
// @Description  Counts X-Cache outcomes recorded in the activity log over a recent window.
// @Tags         Admin
// @Produce      json
// @Param        customerId query string false "Only requests made by this customer"
// @Param        path       query string false "Only requests to this path"
// @Param        since      query string false "Window length as a Go duration" default(24h)
// @Success      200 {object} dto.SuccessResponse{data=model.CacheStats} "Hit and miss counts"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid window"
// @Failure      401 "Missing or wrong credentials"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BasicAuth
// @Router       /admin/cache/stats [get]
func (h *StatsHandler) CacheStats(c *gin.Context) {
	builder := NewResponseBuilder(c)

	window := defaultStatsWindow
	if raw := c.Query("since"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			builder.BadRequest(&dto.ValidationError{Field: "since", Message: "must be a positive duration such as 24h"})
			return
		}
		window = d
	}

	start := h.now().Add(-window)
	stats, err := h.loggingService.CacheStats(c.Request.Context(), model.LogQueryOptions{
		CustomerID: c.Query("customerId"),
		Path:       c.Query("path"),
		StartTime:  &start,
	})
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.SuccessOK(stats)
}
