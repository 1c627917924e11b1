//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
	"github.com/guttosm/rdcredit-service/internal/mocks"
)

func TestInitializeServices(t *testing.T) {
	authCfg := config.AuthConfig{JWTSecretKey: "test-secret", AccessTokenTTL: time.Hour}

	t.Run("calculator only without a record store", func(t *testing.T) {
		components := InitializeServices(authCfg, cache.NewManager(nil), nil)

		require.NotNil(t, components)
		assert.NotNil(t, components.Calculator)
		assert.Nil(t, components.Records)
		assert.Nil(t, components.Auth)
	})

	t.Run("portal services with a record store", func(t *testing.T) {
		store := &mocks.MockRecordStore{}
		components := InitializeServices(authCfg, cache.NewManager(cache.NewMemoryStore(100, 1)), store)

		assert.NotNil(t, components.Calculator)
		assert.NotNil(t, components.Records)
		assert.NotNil(t, components.Auth)
	})
}

func TestServiceComponents_CalculatorUsesCache(t *testing.T) {
	manager := cache.NewManager(cache.NewMemoryStore(100, 1))
	components := InitializeServices(config.AuthConfig{}, manager, nil)

	input := model.CreditInput{Wages: 100000, WageRDPercent: 50}
	first := components.Calculator.Estimate(context.Background(), input)
	second := components.Calculator.Estimate(context.Background(), input)

	assert.Equal(t, first, second)
	assert.Greater(t, first.TotalQRE, 0.0)
}
