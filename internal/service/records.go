package service

import (
	"context"

	"github.com/guttosm/rdcredit-service/internal/cache"
	"github.com/guttosm/rdcredit-service/internal/domain/model"
)

// RecordStore is the upstream record store. Lookups return nil and no error
// when the record does not exist.
type RecordStore interface {
	FindCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	FindCustomerByID(ctx context.Context, id string) (*model.Customer, error)
	FindCompanyByCustomerID(ctx context.Context, customerID string) (*model.Company, error)
	FindCompanyByID(ctx context.Context, id string) (*model.Company, error)
	ListExpenses(ctx context.Context, companyID string) ([]model.Expense, error)
	ListWages(ctx context.Context, companyID string) ([]model.Wage, error)
	GetDocumentStatus(ctx context.Context, customerID string) (*model.DocumentStatus, error)

	UpdateCustomer(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error)
	UpdateCompany(ctx context.Context, id string, patch model.CompanyPatch) (*model.Company, error)
	ReplaceExpenses(ctx context.Context, companyID string, expenses []model.Expense) ([]model.Expense, error)
	ReplaceWages(ctx context.Context, companyID string, wages []model.Wage) ([]model.Wage, error)
}

// RecordService reads upstream records through the cache.
//
// Mutations go straight to the store. Clearing the entries they make stale
// is done by the HTTP invalidation middleware after a successful response.
type RecordService struct {
	store     RecordStore
	cache     *cache.Manager
	docStatus func(context.Context, string) (*model.DocumentStatus, error)
}

// NewRecordService creates a RecordService. A nil manager disables caching.
func NewRecordService(store RecordStore, manager *cache.Manager) *RecordService {
	if manager == nil {
		manager = cache.NewManager(nil)
	}
	return &RecordService{
		store:     store,
		cache:     manager,
		docStatus: cache.Memoize(manager, store.GetDocumentStatus, cache.DocsStatusKey, cache.TTLShort),
	}
}

// CustomerByEmail looks a customer up by email, case-insensitively. A fresh
// upstream hit also warms the by-id key.
func (s *RecordService) CustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	email = cache.NormalizeEmail(email)
	return cache.GetOrFetch(ctx, s.cache, cache.CustomerEmailKey(email), cache.TTLMedium,
		func(ctx context.Context) (*model.Customer, error) {
			customer, err := s.store.FindCustomerByEmail(ctx, email)
			if err == nil && customer != nil {
				s.cache.Set(ctx, cache.CustomerIDKey(customer.ID), customer, cache.TTLMedium)
			}
			return customer, err
		})
}

// CustomerByID looks a customer up by record id.
func (s *RecordService) CustomerByID(ctx context.Context, id string) (*model.Customer, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.CustomerIDKey(id), cache.TTLMedium,
		func(ctx context.Context) (*model.Customer, error) {
			return s.store.FindCustomerByID(ctx, id)
		})
}

// CompanyByCustomerID returns the company owned by a customer. A fresh
// upstream hit also warms the by-id key used by ownership checks.
func (s *RecordService) CompanyByCustomerID(ctx context.Context, customerID string) (*model.Company, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.CompanyByCustomerKey(customerID), cache.TTLMedium,
		func(ctx context.Context) (*model.Company, error) {
			company, err := s.store.FindCompanyByCustomerID(ctx, customerID)
			if err == nil && company != nil {
				s.cache.Set(ctx, cache.CompanyIDKey(company.ID), company, cache.TTLMedium)
			}
			return company, err
		})
}

// CompanyByID looks a company up by record id.
func (s *RecordService) CompanyByID(ctx context.Context, id string) (*model.Company, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.CompanyIDKey(id), cache.TTLMedium,
		func(ctx context.Context) (*model.Company, error) {
			return s.store.FindCompanyByID(ctx, id)
		})
}

// ExpensesByCompany lists a company's expense lines.
func (s *RecordService) ExpensesByCompany(ctx context.Context, companyID string) ([]model.Expense, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.ExpensesByCompanyKey(companyID), cache.TTLMedium,
		func(ctx context.Context) ([]model.Expense, error) {
			return s.store.ListExpenses(ctx, companyID)
		})
}

// WagesByCompany lists a company's wage lines.
func (s *RecordService) WagesByCompany(ctx context.Context, companyID string) ([]model.Wage, error) {
	return cache.GetOrFetch(ctx, s.cache, cache.WagesByCompanyKey(companyID), cache.TTLMedium,
		func(ctx context.Context) ([]model.Wage, error) {
			return s.store.ListWages(ctx, companyID)
		})
}

// DocumentStatus returns the customer's document checklist. It changes as
// staff work on the study, so it lives in the short tier.
func (s *RecordService) DocumentStatus(ctx context.Context, customerID string) (*model.DocumentStatus, error) {
	return s.docStatus(ctx, customerID)
}

// UpdateCustomer writes a contact change.
func (s *RecordService) UpdateCustomer(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	return s.store.UpdateCustomer(ctx, id, patch)
}

// UpdateCompany writes a company profile change.
func (s *RecordService) UpdateCompany(ctx context.Context, id string, patch model.CompanyPatch) (*model.Company, error) {
	return s.store.UpdateCompany(ctx, id, patch)
}

// ReplaceExpenses replaces a company's expense lines.
func (s *RecordService) ReplaceExpenses(ctx context.Context, companyID string, expenses []model.Expense) ([]model.Expense, error) {
	return s.store.ReplaceExpenses(ctx, companyID, expenses)
}

// ReplaceWages replaces a company's wage lines.
func (s *RecordService) ReplaceWages(ctx context.Context, companyID string, wages []model.Wage) ([]model.Wage, error) {
	return s.store.ReplaceWages(ctx, companyID, wages)
}
