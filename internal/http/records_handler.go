package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/rdcredit-service/internal/airtable"
	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/domain/dto"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/i18n"
	"github.com/guttosm/rdcredit-service/internal/middleware"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// RecordsHandler serves the customer portal's records.
type RecordsHandler struct {
	records        *service.RecordService
	loggingService service.LoggingService
}

// NewRecordsHandler creates a RecordsHandler. loggingService may be nil.
func NewRecordsHandler(records *service.RecordService, loggingService service.LoggingService) *RecordsHandler {
	return &RecordsHandler{records: records, loggingService: loggingService}
}

// GetCustomer handles GET /api/customers/:customerId.
//
// @Summary      Get customer
// @Tags         Portal
// @Produce      json
// @Param        customerId path string true "Customer record id"
// @Success      200 {object} dto.SuccessResponse{data=model.Customer}
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid session"
// @Failure      403 {object} dto.ErrorResponse "Another customer's record"
// @Failure      404 {object} dto.ErrorResponse "Customer not found"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/customers/{customerId} [get]
func (h *RecordsHandler) GetCustomer(c *gin.Context) {
	builder := NewResponseBuilder(c)

	customer, err := h.records.CustomerByID(c.Request.Context(), c.Param(middleware.CustomerIDParam))
	if err != nil {
		builder.Fail(err)
		return
	}
	if customer == nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyCustomerNotFound, nil)
		return
	}
	builder.SuccessOK(customer)
}

// UpdateCustomer handles PUT /api/customers/:customerId.
//
// @Summary      Update customer contact
// @Tags         Portal
// @Accept       json
// @Produce      json
// @Param        customerId path string true "Customer record id"
// @Param        request body dto.UpdateCustomerRequest true "Changed fields"
// @Success      200 {object} dto.SuccessResponse{data=model.Customer}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Customer not found"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/customers/{customerId} [put]
func (h *RecordsHandler) UpdateCustomer(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.UpdateCustomerRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	customerID := c.Param(middleware.CustomerIDParam)
	customer, err := h.records.UpdateCustomer(c.Request.Context(), customerID, req.ToPatch())
	if err != nil {
		builder.Fail(err)
		return
	}

	// The by-email key is not addressed by the customer id.
	middleware.AddInvalidationTarget(c, cache.EntityCustomer, cache.NormalizeEmail(customer.Email))
	h.audit(c, "Customer contact updated", map[string]interface{}{"customer_id": customerID})

	builder.SuccessOK(customer)
}

// GetCompany handles GET /api/customers/:customerId/company.
//
// @Summary      Get the customer's company
// @Tags         Portal
// @Produce      json
// @Param        customerId path string true "Customer record id"
// @Success      200 {object} dto.SuccessResponse{data=model.Company}
// @Failure      404 {object} dto.ErrorResponse "Company not found"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/customers/{customerId}/company [get]
func (h *RecordsHandler) GetCompany(c *gin.Context) {
	builder := NewResponseBuilder(c)

	company, err := h.records.CompanyByCustomerID(c.Request.Context(), c.Param(middleware.CustomerIDParam))
	if err != nil {
		builder.Fail(err)
		return
	}
	if company == nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyCompanyNotFound, nil)
		return
	}
	builder.SuccessOK(company)
}

// GetDocuments handles GET /api/customers/:customerId/documents.
//
// @Summary      Get document checklist
// @Tags         Portal
// @Produce      json
// @Param        customerId path string true "Customer record id"
// @Success      200 {object} dto.SuccessResponse{data=model.DocumentStatus}
// @Failure      404 {object} dto.ErrorResponse "No checklist for this customer"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/customers/{customerId}/documents [get]
func (h *RecordsHandler) GetDocuments(c *gin.Context) {
	builder := NewResponseBuilder(c)

	status, err := h.records.DocumentStatus(c.Request.Context(), c.Param(middleware.CustomerIDParam))
	if err != nil {
		builder.Fail(err)
		return
	}
	if status == nil {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}
	builder.SuccessOK(status)
}

// UpdateCompany handles PUT /api/companies/:companyId.
//
// @Summary      Update company profile
// @Tags         Portal
// @Accept       json
// @Produce      json
// @Param        companyId path string true "Company record id"
// @Param        request body dto.UpdateCompanyRequest true "Changed fields"
// @Success      200 {object} dto.SuccessResponse{data=model.Company}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      403 {object} dto.ErrorResponse "Another customer's company"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/companies/{companyId} [put]
func (h *RecordsHandler) UpdateCompany(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.UpdateCompanyRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	companyID := c.Param(middleware.CompanyIDParam)
	company, err := h.records.UpdateCompany(c.Request.Context(), companyID, req.ToPatch())
	if err != nil {
		builder.Fail(err)
		return
	}

	// Customer responses embed the company.
	middleware.AddInvalidationTarget(c, cache.EntityCustomer, company.CustomerID)
	h.audit(c, "Company profile updated", map[string]interface{}{"company_id": companyID})

	builder.SuccessOK(company)
}

// GetExpenses handles GET /api/companies/:companyId/expenses.
//
// @Summary      List expense lines
// @Tags         Portal
// @Produce      json
// @Param        companyId path string true "Company record id"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Expense}
// @Failure      403 {object} dto.ErrorResponse "Another customer's company"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/companies/{companyId}/expenses [get]
func (h *RecordsHandler) GetExpenses(c *gin.Context) {
	builder := NewResponseBuilder(c)

	expenses, err := h.records.ExpensesByCompany(c.Request.Context(), c.Param(middleware.CompanyIDParam))
	if err != nil {
		builder.Fail(err)
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	builder.SuccessOK(expenses)
}

// ReplaceExpenses handles PUT /api/companies/:companyId/expenses.
//
// @Summary      Replace expense lines
// @Tags         Portal
// @Accept       json
// @Produce      json
// @Param        companyId path string true "Company record id"
// @Param        request body dto.ReplaceExpensesRequest true "All expense lines"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Expense}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/companies/{companyId}/expenses [put]
func (h *RecordsHandler) ReplaceExpenses(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.ReplaceExpensesRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	companyID := c.Param(middleware.CompanyIDParam)
	expenses, err := h.records.ReplaceExpenses(c.Request.Context(), companyID, req.Expenses)
	if err != nil {
		if errors.Is(err, airtable.ErrPartialWrite) {
			middleware.MarkPartialMutation(c)
		}
		builder.Fail(err)
		return
	}

	h.audit(c, "Expense lines replaced", map[string]interface{}{"company_id": companyID, "lines": len(expenses)})
	builder.SuccessOK(expenses)
}

// GetWages handles GET /api/companies/:companyId/wages.
//
// @Summary      List wage lines
// @Tags         Portal
// @Produce      json
// @Param        companyId path string true "Company record id"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Wage}
// @Failure      403 {object} dto.ErrorResponse "Another customer's company"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/companies/{companyId}/wages [get]
func (h *RecordsHandler) GetWages(c *gin.Context) {
	builder := NewResponseBuilder(c)

	wages, err := h.records.WagesByCompany(c.Request.Context(), c.Param(middleware.CompanyIDParam))
	if err != nil {
		builder.Fail(err)
		return
	}
	if wages == nil {
		wages = []model.Wage{}
	}
	builder.SuccessOK(wages)
}

// ReplaceWages handles PUT /api/companies/:companyId/wages.
//
// @Summary      Replace wage lines
// @Tags         Portal
// @Accept       json
// @Produce      json
// @Param        companyId path string true "Company record id"
// @Param        request body dto.ReplaceWagesRequest true "All wage lines"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Wage}
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      503 {object} dto.ErrorResponse "Record store unavailable"
// @Security     BearerAuth
// @Router       /api/companies/{companyId}/wages [put]
func (h *RecordsHandler) ReplaceWages(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.ReplaceWagesRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	companyID := c.Param(middleware.CompanyIDParam)
	wages, err := h.records.ReplaceWages(c.Request.Context(), companyID, req.Wages)
	if err != nil {
		if errors.Is(err, airtable.ErrPartialWrite) {
			middleware.MarkPartialMutation(c)
		}
		builder.Fail(err)
		return
	}

	h.audit(c, "Wage lines replaced", map[string]interface{}{"company_id": companyID, "lines": len(wages)})
	builder.SuccessOK(wages)
}

func (h *RecordsHandler) audit(c *gin.Context, message string, fields map[string]interface{}) {
	if h.loggingService != nil {
		middleware.AuditLog(h.loggingService, c, model.ActionUpdate, message, fields)
	}
}
