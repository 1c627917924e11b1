package service

import (
	"context"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
)

// CalculationCache memoizes credit estimates by a hash of their input and of
// the pricing table. The calculation is pure, so entries are only ever dropped
// by expiry; a pricing change moves estimates to fresh keys.
type CalculationCache struct {
	cache   *cache.Manager
	pricing string
}

// NewCalculationCache creates a CalculationCache on top of manager, keyed for
// the default pricing table.
func NewCalculationCache(manager *cache.Manager) *CalculationCache {
	return &CalculationCache{cache: manager, pricing: pricingVersion(DefaultPricingTiers)}
}

// pricingVersion returns a short fingerprint of a pricing table.
func pricingVersion(tiers []model.PricingTier) string {
	return cache.GenerateHash(tiers)[:8]
}

// forPricing returns a copy of c keyed for tiers.
func (c *CalculationCache) forPricing(tiers []model.PricingTier) *CalculationCache {
	return &CalculationCache{cache: c.cache, pricing: pricingVersion(tiers)}
}

// Key returns the cache key of input.
func (c *CalculationCache) Key(input model.CreditInput) string {
	return cache.CalcResultKey(c.pricing, cache.GenerateHash(input))
}

// GetCachedResult returns the stored estimate for input, if any.
func (c *CalculationCache) GetCachedResult(ctx context.Context, input model.CreditInput) (*model.CreditEstimate, bool) {
	result, ok := cache.GetAs[model.CreditEstimate](ctx, c.cache, c.Key(input))
	if !ok {
		return nil, false
	}
	return &result, true
}

// CacheResult stores result for input for a day.
func (c *CalculationCache) CacheResult(ctx context.Context, input model.CreditInput, result model.CreditEstimate) {
	c.cache.Set(ctx, c.Key(input), result, cache.TTLDay)
}
