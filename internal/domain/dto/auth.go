package dto

import (
	"time"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
)

// LookupRequest is the body of POST /api/auth/lookup.
//
// @Description Email lookup
// @Example {"email": "jane@acme.io"}
type LookupRequest struct {
	Email string `json:"email" binding:"required,email" example:"jane@acme.io"`
} // @name LookupRequest

// LookupResponse carries the session token issued for a known customer.
//
// @Description Session token and customer
type LookupResponse struct {
	Token     string         `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time      `json:"expiresAt"`
	Customer  model.Customer `json:"customer"`
} // @name LookupResponse

// PricingResponse lists the pricing tiers.
//
// @Description Pricing tiers
type PricingResponse struct {
	Tiers []model.PricingTier `json:"tiers"`
} // @name PricingResponse

// Claims identifies the customer a session token was issued to.
type Claims struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
}
