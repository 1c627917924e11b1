package service

import (
	"context"
	"math"
	"time"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/metrics"
)

const (
	// federalCreditRate approximates the alternative simplified credit.
	federalCreditRate = 0.10
	// contractorQualifiedShare is the part of contract research that qualifies.
	contractorQualifiedShare = 0.65
)

// DefaultPricingTiers are ordered by MaxCredit; the last tier is unbounded.
var DefaultPricingTiers = []model.PricingTier{
	{Name: "starter", MaxCredit: 25000, Price: 750},
	{Name: "growth", MaxCredit: 100000, Price: 1500},
	{Name: "professional", MaxCredit: 250000, Price: 2500},
	{Name: "enterprise", MaxCredit: 0, Price: 4500},
}

// CreditCalculator estimates the federal R&D credit for an input.
type CreditCalculator interface {
	Estimate(ctx context.Context, input model.CreditInput) model.CreditEstimate
	PricingTiers() []model.PricingTier
}

// Option configures a CreditCalculatorService.
type Option func(*CreditCalculatorService)

// CreditCalculatorService implements CreditCalculator. The arithmetic is pure,
// so estimates can be memoized by input.
type CreditCalculatorService struct {
	tiers   []model.PricingTier
	results *CalculationCache
	compute func(model.CreditInput) model.CreditEstimate
}

// NewCreditCalculatorService creates a calculator with the given options.
func NewCreditCalculatorService(opts ...Option) *CreditCalculatorService {
	s := &CreditCalculatorService{
		tiers: make([]model.PricingTier, len(DefaultPricingTiers)),
	}
	copy(s.tiers, DefaultPricingTiers)
	s.compute = s.Compute

	for _, opt := range opts {
		opt(s)
	}
	if s.results != nil {
		s.results = s.results.forPricing(s.tiers)
	}
	return s
}

// WithPricingTiers replaces the pricing table. Tiers must be ordered by
// MaxCredit with an unbounded last tier.
func WithPricingTiers(tiers []model.PricingTier) Option {
	return func(s *CreditCalculatorService) {
		if len(tiers) > 0 {
			s.tiers = make([]model.PricingTier, len(tiers))
			copy(s.tiers, tiers)
		}
	}
}

// WithResultCache memoizes estimates in c.
func WithResultCache(c *CalculationCache) Option {
	return func(s *CreditCalculatorService) {
		s.results = c
	}
}

// Estimate returns the cached estimate for input or computes and caches it.
func (s *CreditCalculatorService) Estimate(ctx context.Context, input model.CreditInput) model.CreditEstimate {
	start := time.Now()

	if s.results != nil {
		if cached, ok := s.results.GetCachedResult(ctx, input); ok {
			metrics.RecordCreditCalculation(time.Since(start), "cached")
			return *cached
		}
	}

	result := s.compute(input)

	if s.results != nil {
		s.results.CacheResult(ctx, input, result)
	}
	metrics.RecordCreditCalculation(time.Since(start), "computed")
	return result
}

// Compute runs the credit arithmetic without touching the cache.
func (s *CreditCalculatorService) Compute(input model.CreditInput) model.CreditEstimate {
	qre := input.Wages*pct(input.WageRDPercent) +
		input.Contractors*pct(input.ContractorRDPercent)*contractorQualifiedShare +
		input.Supplies*pct(input.SuppliesRDPercent)

	credit := roundCents(qre * federalCreditRate)
	tier := s.tierFor(credit)

	return model.CreditEstimate{
		TotalQRE:      roundCents(qre),
		FederalCredit: credit,
		Tier:          tier.Name,
		Price:         tier.Price,
	}
}

// PricingTiers returns a copy of the pricing table.
func (s *CreditCalculatorService) PricingTiers() []model.PricingTier {
	out := make([]model.PricingTier, len(s.tiers))
	copy(out, s.tiers)
	return out
}

func (s *CreditCalculatorService) tierFor(credit float64) model.PricingTier {
	for _, t := range s.tiers {
		if t.MaxCredit == 0 || credit < t.MaxCredit {
			return t
		}
	}
	return s.tiers[len(s.tiers)-1]
}

func pct(p float64) float64 {
	return p / 100
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
