//go:build !integration

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
)

func TestCalculationCache(t *testing.T) {
	ctx := context.Background()
	results := NewCalculationCache(newTestCache(t))
	estimate := model.CreditEstimate{TotalQRE: 450000, FederalCredit: 45000, Tier: "growth", Price: 1500}

	t.Run("miss before caching", func(t *testing.T) {
		got, ok := results.GetCachedResult(ctx, exampleInput)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("hit after caching", func(t *testing.T) {
		results.CacheResult(ctx, exampleInput, estimate)

		got, ok := results.GetCachedResult(ctx, exampleInput)
		require.True(t, ok)
		assert.Equal(t, estimate, *got)
	})

	t.Run("equal inputs share a key", func(t *testing.T) {
		same := model.CreditInput{SuppliesRDPercent: 100, Supplies: 50000, WageRDPercent: 80, Wages: 500000}
		assert.Equal(t, results.Key(exampleInput), results.Key(same))
	})

	t.Run("distinct inputs do not collide", func(t *testing.T) {
		other := exampleInput
		other.SuppliesRDPercent = 99
		assert.NotEqual(t, results.Key(exampleInput), results.Key(other))

		_, ok := results.GetCachedResult(ctx, other)
		assert.False(t, ok)
	})

	t.Run("key lives in the calculation namespace", func(t *testing.T) {
		want := cache.CalcResultKey(pricingVersion(DefaultPricingTiers), cache.GenerateHash(exampleInput))
		assert.Equal(t, want, results.Key(exampleInput))
	})
}

func TestCalculationCache_PricingChangeMisses(t *testing.T) {
	ctx := context.Background()
	manager := newTestCache(t)

	before := NewCreditCalculatorService(WithResultCache(NewCalculationCache(manager)))
	old := before.Estimate(ctx, exampleInput)
	require.Equal(t, "growth", old.Tier)

	repriced := make([]model.PricingTier, len(DefaultPricingTiers))
	copy(repriced, DefaultPricingTiers)
	for i := range repriced {
		repriced[i].Price += 100
	}
	after := NewCreditCalculatorService(
		WithResultCache(NewCalculationCache(manager)),
		WithPricingTiers(repriced),
	)

	calls := 0
	after.compute = func(in model.CreditInput) model.CreditEstimate {
		calls++
		return after.Compute(in)
	}
	got := after.Estimate(ctx, exampleInput)

	assert.Equal(t, 1, calls)
	assert.Equal(t, old.Price+100, got.Price)
	assert.NotEqual(t, before.results.Key(exampleInput), after.results.Key(exampleInput))
}

func TestpricingVersion(t *testing.T) {
	assert.Equal(t, pricingVersion(DefaultPricingTiers), pricingVersion(DefaultPricingTiers))
	assert.Len(t, pricingVersion(DefaultPricingTiers), 8)
	assert.NotEqual(t, pricingVersion(DefaultPricingTiers), pricingVersion(DefaultPricingTiers[:1]))
}

func TestCalculationCache_Disabled(t *testing.T) {
	ctx := context.Background()
	results := NewCalculationCache(cache.NewManager(nil))

	results.CacheResult(ctx, exampleInput, model.CreditEstimate{Tier: "growth"})

	_, ok := results.GetCachedResult(ctx, exampleInput)
	assert.False(t, ok)
}
