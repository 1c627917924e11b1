// Package dto defines the request and response bodies of the HTTP API.
package dto

import (
	"strings"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
)

// ValidationError reports one invalid request field.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func percentError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "must be between 0 and 100"}
}

func amountError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "must not be negative"}
}

// CalculateRequest is the body of POST /api/calculate.
//
// @Description Credit estimator input
// @Example {"wages": 500000, "wageRdPercent": 80, "contractors": 0, "contractorRdPercent": 0, "supplies": 50000, "suppliesRdPercent": 100}
type CalculateRequest struct {
	Wages               float64 `json:"wages" example:"500000"`
	WageRDPercent       float64 `json:"wageRdPercent" example:"80"`
	Contractors         float64 `json:"contractors" example:"0"`
	ContractorRDPercent float64 `json:"contractorRdPercent" example:"0"`
	Supplies            float64 `json:"supplies" example:"50000"`
	SuppliesRDPercent   float64 `json:"suppliesRdPercent" example:"100"`
} // @name CalculateRequest

// Validate checks amounts are non-negative and percentages within 0..100.
func (r *CalculateRequest) Validate() error {
	amounts := []struct {
		field string
		v     float64
	}{
		{"wages", r.Wages},
		{"contractors", r.Contractors},
		{"supplies", r.Supplies},
	}
	for _, a := range amounts {
		if a.v < 0 {
			return amountError(a.field)
		}
	}

	percents := []struct {
		field string
		v     float64
	}{
		{"wageRdPercent", r.WageRDPercent},
		{"contractorRdPercent", r.ContractorRDPercent},
		{"suppliesRdPercent", r.SuppliesRDPercent},
	}
	for _, p := range percents {
		if p.v < 0 || p.v > 100 {
			return percentError(p.field)
		}
	}
	return nil
}

// ToInput converts the request to calculator input.
func (r *CalculateRequest) ToInput() model.CreditInput {
	return model.CreditInput{
		Wages:               r.Wages,
		WageRDPercent:       r.WageRDPercent,
		Contractors:         r.Contractors,
		ContractorRDPercent: r.ContractorRDPercent,
		Supplies:            r.Supplies,
		SuppliesRDPercent:   r.SuppliesRDPercent,
	}
}

// UpdateCustomerRequest is the body of PUT /api/customers/:customerId. Empty
// fields are left unchanged.
//
// @Description Customer contact update
type UpdateCustomerRequest struct {
	Name        string `json:"name,omitempty" example:"Jane Doe"`
	Phone       string `json:"phone,omitempty" example:"+1 555 0100"`
	CompanyName string `json:"companyName,omitempty" example:"Acme Robotics"`
} // @name UpdateCustomerRequest

// Validate requires at least one field.
func (r *UpdateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name+r.Phone+r.CompanyName) == "" {
		return &ValidationError{Field: "body", Message: "at least one field is required"}
	}
	return nil
}

// ToPatch converts the request to a record patch.
func (r *UpdateCustomerRequest) ToPatch() model.CustomerPatch {
	return model.CustomerPatch{
		Name:        strings.TrimSpace(r.Name),
		Phone:       strings.TrimSpace(r.Phone),
		CompanyName: strings.TrimSpace(r.CompanyName),
	}
}

// UpdateCompanyRequest is the body of PUT /api/companies/:companyId.
//
// @Description Company profile update
type UpdateCompanyRequest struct {
	Name          string  `json:"name,omitempty" example:"Acme Robotics"`
	EIN           string  `json:"ein,omitempty" example:"12-3456789"`
	Industry      string  `json:"industry,omitempty" example:"Manufacturing"`
	State         string  `json:"state,omitempty" example:"CA"`
	FoundedYear   int     `json:"foundedYear,omitempty" example:"2018"`
	GrossReceipts float64 `json:"grossReceipts,omitempty" example:"4200000"`
} // @name UpdateCompanyRequest

// Validate rejects negative numbers.
func (r *UpdateCompanyRequest) Validate() error {
	if r.FoundedYear < 0 {
		return &ValidationError{Field: "foundedYear", Message: "must not be negative"}
	}
	if r.GrossReceipts < 0 {
		return amountError("grossReceipts")
	}
	return nil
}

// ToPatch converts the request to a record patch.
func (r *UpdateCompanyRequest) ToPatch() model.CompanyPatch {
	return model.CompanyPatch{
		Name:          strings.TrimSpace(r.Name),
		EIN:           strings.TrimSpace(r.EIN),
		Industry:      r.Industry,
		State:         r.State,
		FoundedYear:   r.FoundedYear,
		GrossReceipts: r.GrossReceipts,
	}
}

// ReplaceExpensesRequest replaces a company's expense lines for a tax year.
//
// @Description Expense lines
type ReplaceExpensesRequest struct {
	Expenses []model.Expense `json:"expenses" binding:"required"`
} // @name ReplaceExpensesRequest

// Validate checks each line.
func (r *ReplaceExpensesRequest) Validate() error {
	for _, e := range r.Expenses {
		switch e.Category {
		case model.ExpenseSupplies, model.ExpenseContractors, model.ExpenseCloud:
		default:
			return &ValidationError{Field: "category", Message: "must be supplies, contractors or cloud"}
		}
		if e.Amount < 0 {
			return amountError("amount")
		}
		if e.RDPercent < 0 || e.RDPercent > 100 {
			return percentError("rdPercent")
		}
	}
	return nil
}

// ReplaceWagesRequest replaces a company's wage lines.
//
// @Description Wage lines
type ReplaceWagesRequest struct {
	Wages []model.Wage `json:"wages" binding:"required"`
} // @name ReplaceWagesRequest

// Validate checks each line.
func (r *ReplaceWagesRequest) Validate() error {
	for _, w := range r.Wages {
		if strings.TrimSpace(w.EmployeeName) == "" {
			return &ValidationError{Field: "employeeName", Message: "is required"}
		}
		if w.AnnualWages < 0 {
			return amountError("annualWages")
		}
		if w.RDPercent < 0 || w.RDPercent > 100 {
			return percentError("rdPercent")
		}
	}
	return nil
}
