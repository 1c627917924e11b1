package app

import (
	"github.com/guttosm/rdcredit-service/config"
	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Calculator service.CreditCalculator
	// Records and Auth are nil when no record store is configured.
	Records *service.RecordService
	Auth    service.AuthService
}

// InitializeServices initializes business logic services. store may be nil.
func InitializeServices(cfg config.AuthConfig, manager *cache.Manager, store service.RecordStore) *ServiceComponents {
	components := &ServiceComponents{
		Calculator: service.NewCreditCalculatorService(
			service.WithResultCache(service.NewCalculationCache(manager)),
		),
	}

	if store == nil {
		return components
	}

	components.Records = service.NewRecordService(store, manager)
	tokens := service.NewTokenService(service.NewTokenConfigFromAuthConfig(cfg))
	components.Auth = service.NewAuthService(components.Records, tokens)
	return components
}
