// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/rdcredit-service/internal/domain/model"
)

type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) FindCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockRecordStore) FindCustomerByID(ctx context.Context, id string) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockRecordStore) FindCompanyByCustomerID(ctx context.Context, customerID string) (*model.Company, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockRecordStore) FindCompanyByID(ctx context.Context, id string) (*model.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockRecordStore) ListExpenses(ctx context.Context, companyID string) ([]model.Expense, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *MockRecordStore) ListWages(ctx context.Context, companyID string) ([]model.Wage, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Wage), args.Error(1)
}

func (m *MockRecordStore) GetDocumentStatus(ctx context.Context, customerID string) (*model.DocumentStatus, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentStatus), args.Error(1)
}

func (m *MockRecordStore) UpdateCustomer(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockRecordStore) UpdateCompany(ctx context.Context, id string, patch model.CompanyPatch) (*model.Company, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockRecordStore) ReplaceExpenses(ctx context.Context, companyID string, expenses []model.Expense) ([]model.Expense, error) {
	args := m.Called(ctx, companyID, expenses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *MockRecordStore) ReplaceWages(ctx context.Context, companyID string, wages []model.Wage) ([]model.Wage, error) {
	args := m.Called(ctx, companyID, wages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Wage), args.Error(1)
}
