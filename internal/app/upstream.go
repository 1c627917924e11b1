package app

import (
	"github.com/rs/zerolog/log"

	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/airtable"
	"github.com/guttosm/rdcredit-service/internal/circuitbreaker"
)

// InitializeUpstream creates the Airtable client. It returns nil when no
// credentials are configured; the portal is then not served.
func InitializeUpstream(cfg config.AirtableConfig) *airtable.Client {
	if cfg.APIKey == "" || cfg.BaseID == "" {
		log.Warn().Msg("AIRTABLE_API_KEY or AIRTABLE_BASE_ID not set, customer portal disabled")
		return nil
	}

	client := airtable.NewClient(airtable.Config{
		APIKey:    cfg.APIKey,
		BaseID:    cfg.BaseID,
		BaseURL:   cfg.BaseURL,
		RateLimit: cfg.RateLimit,
		Timeout:   cfg.Timeout,
		Tables: airtable.Tables{
			Customers: cfg.Tables.Customers,
			Companies: cfg.Tables.Companies,
			Expenses:  cfg.Tables.Expenses,
			Wages:     cfg.Tables.Wages,
			Documents: cfg.Tables.Documents,
		},
		Breaker: circuitbreaker.Config{
			FailureThreshold: cfg.CircuitBreakerFailureThreshold,
			SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
			Timeout:          cfg.CircuitBreakerTimeout,
			Name:             "airtable",
		},
	})

	log.Info().Str("base_id", cfg.BaseID).Float64("rate_limit", cfg.RateLimit).Msg("Airtable client ready")
	return client
}
