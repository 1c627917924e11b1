package model

// CreditInput is what a visitor enters in the estimator. Amounts are annual
// dollars and percentages are 0 to 100.
//
// @Description Credit estimator input
// @Example {"wages": 500000, "wageRdPercent": 80, "contractors": 0, "contractorRdPercent": 0, "supplies": 50000, "suppliesRdPercent": 100}
type CreditInput struct {
	Wages               float64 `json:"wages" example:"500000"`
	WageRDPercent       float64 `json:"wageRdPercent" example:"80"`
	Contractors         float64 `json:"contractors" example:"0"`
	ContractorRDPercent float64 `json:"contractorRdPercent" example:"0"`
	Supplies            float64 `json:"supplies" example:"50000"`
	SuppliesRDPercent   float64 `json:"suppliesRdPercent" example:"100"`
} // @name CreditInput

// PricingTier is a service package priced by the size of the credit.
//
// @Description Pricing tier
type PricingTier struct {
	Name string `json:"name" example:"professional"`
	// MaxCredit is the exclusive upper bound of the tier; zero means unbounded.
	MaxCredit float64 `json:"maxCredit" example:"250000"`
	Price     float64 `json:"price" example:"2500"`
} // @name PricingTier

// CreditEstimate is the calculator output.
//
// @Description Credit estimate
// @Example {"totalQRE": 450000, "federalCredit": 45000, "tier": "growth", "price": 1500}
type CreditEstimate struct {
	TotalQRE      float64 `json:"totalQRE" example:"450000"`
	FederalCredit float64 `json:"federalCredit" example:"45000"`
	Tier          string  `json:"tier" example:"growth"`
	Price         float64 `json:"price" example:"1500"`
} // @name CreditEstimate
