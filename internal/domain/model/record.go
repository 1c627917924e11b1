// Package model defines the records read from the upstream record store and
// the credit calculator's input and output.
package model

import "time"

// Customer is a lead who signed up through the intake form.
//
// @Description Customer record
type Customer struct {
	ID          string    `json:"id" example:"recA1b2C3d4E5f6G7"`
	Email       string    `json:"email" example:"jane@acme.io"`
	Name        string    `json:"name" example:"Jane Doe"`
	Phone       string    `json:"phone,omitempty" example:"+1 555 0100"`
	CompanyName string    `json:"companyName,omitempty" example:"Acme Robotics"`
	Status      string    `json:"status,omitempty" example:"intake"`
	CreatedAt   time.Time `json:"createdAt"`
} // @name Customer

// Company is the business a customer claims the credit for.
//
// @Description Company record
type Company struct {
	ID            string  `json:"id" example:"recC0mp4ny000001"`
	CustomerID    string  `json:"customerId" example:"recA1b2C3d4E5f6G7"`
	Name          string  `json:"name" example:"Acme Robotics"`
	EIN           string  `json:"ein,omitempty" example:"12-3456789"`
	Industry      string  `json:"industry,omitempty" example:"Manufacturing"`
	State         string  `json:"state,omitempty" example:"CA"`
	FoundedYear   int     `json:"foundedYear,omitempty" example:"2018"`
	GrossReceipts float64 `json:"grossReceipts,omitempty" example:"4200000"`
} // @name Company

// Expense categories.
const (
	ExpenseSupplies    = "supplies"
	ExpenseContractors = "contractors"
	ExpenseCloud       = "cloud"
)

// Expense is a non-wage qualified research expense line.
//
// @Description Expense line
type Expense struct {
	ID          string  `json:"id,omitempty"`
	CompanyID   string  `json:"companyId"`
	TaxYear     int     `json:"taxYear" example:"2024"`
	Category    string  `json:"category" example:"supplies" enums:"supplies,contractors,cloud"`
	Description string  `json:"description,omitempty" example:"Prototype materials"`
	Amount      float64 `json:"amount" example:"50000"`
	RDPercent   float64 `json:"rdPercent" example:"100"`
} // @name Expense

// Wage is one employee's wages and the share spent on research.
//
// @Description Wage line
type Wage struct {
	ID           string  `json:"id,omitempty"`
	CompanyID    string  `json:"companyId"`
	TaxYear      int     `json:"taxYear" example:"2024"`
	EmployeeName string  `json:"employeeName" example:"Sam Lee"`
	Title        string  `json:"title,omitempty" example:"Firmware Engineer"`
	AnnualWages  float64 `json:"annualWages" example:"140000"`
	RDPercent    float64 `json:"rdPercent" example:"80"`
} // @name Wage

// DocumentItem is one entry of a customer's document checklist.
type DocumentItem struct {
	Name      string    `json:"name" example:"Payroll register"`
	Status    string    `json:"status" example:"received"`
	UpdatedAt time.Time `json:"updatedAt"`
} // @name DocumentItem

// DocumentStatus tracks where a customer's study is in preparation.
//
// @Description Document preparation status
type DocumentStatus struct {
	CustomerID string         `json:"customerId"`
	Stage      string         `json:"stage" example:"collecting"`
	Documents  []DocumentItem `json:"documents"`
} // @name DocumentStatus

// CustomerPatch holds the customer fields a customer may change. Empty
// fields are left untouched.
type CustomerPatch struct {
	Name        string
	Phone       string
	CompanyName string
}

// CompanyPatch holds the company fields a customer may change. Zero fields
// are left untouched.
type CompanyPatch struct {
	Name          string
	EIN           string
	Industry      string
	State         string
	FoundedYear   int
	GrossReceipts float64
}
