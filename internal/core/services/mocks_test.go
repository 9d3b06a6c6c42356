package services_test

import (
	"context"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/SscSPs/simple_bank_app/internal/core/ports/events"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByLookupKey(ctx context.Context, key string) (*domain.Account, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) LookupKeyInUse(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) CountAccounts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerReader interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) ListRecentEntries(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) BalanceWithEntries(ctx context.Context, accountID string) (decimal.Decimal, []domain.LedgerEntry, error) {
	args := m.Called(ctx, accountID)
	if args.Get(1) == nil {
		return args.Get(0).(decimal.Decimal), nil, args.Error(2)
	}
	return args.Get(0).(decimal.Decimal), args.Get(1).([]domain.LedgerEntry), args.Error(2)
}

// MockTransferUnitOfWork fails every unit with the configured error without running it.
type MockTransferUnitOfWork struct {
	mock.Mock
}

func (m *MockTransferUnitOfWork) RunInTransferUnit(ctx context.Context, fn func(ctx context.Context, unit portsrepo.TransferUnit) error) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPublisher is a mock type for the events.Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransferCompleted(ctx context.Context, event events.TransferCompleted) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
