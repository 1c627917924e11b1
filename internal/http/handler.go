package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/domain/dto"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// Handler provides HTTP handlers for the public estimator routes.
type Handler struct {
	calculator     service.CreditCalculator
	loggingService service.LoggingService
}

// NewHandler creates a new Handler instance. loggingService may be nil.
func NewHandler(calculator service.CreditCalculator, loggingService service.LoggingService) *Handler {
	return &Handler{
		calculator:     calculator,
		loggingService: loggingService,
	}
}

// CalculateCredit handles POST /api/calculate requests.
//
// @Summary      Estimate the R&D credit
// @Description  Estimates the federal R&D tax credit for the given qualified spend and picks the pricing tier. Identical inputs are served from the calculation cache.
// @Tags         Estimator
// @Accept       json
// @Produce      json
// @Param        request body dto.CalculateRequest true "Qualified spend"
// @Success      200 {object} dto.SuccessResponse{data=model.CreditEstimate} "Estimate"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/calculate [post]
func (h *Handler) CalculateCredit(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.CalculateRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	estimate := h.calculator.Estimate(c.Request.Context(), req.ToInput())

	if h.loggingService != nil {
		middleware.AuditLog(h.loggingService, c, model.ActionCalculate, "Credit estimate requested", map[string]interface{}{
			"total_qre": estimate.TotalQRE,
			"tier":      estimate.Tier,
		})
	}

	builder.SuccessOK(estimate)
}

// Pricing handles GET /api/pricing requests.
//
// @Summary      List pricing tiers
// @Description  Returns the study pricing tiers ordered by the largest credit they cover.
// @Tags         Estimator
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.PricingResponse} "Pricing tiers"
// @Router       /api/pricing [get]
func (h *Handler) Pricing(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(dto.PricingResponse{Tiers: h.calculator.PricingTiers()})
}
