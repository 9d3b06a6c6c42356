package services

import (
	"context"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/SscSPs/simple_bank_app/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountDirectorySvc resolves accounts and exposes balances. It has no mutation methods.
type AccountDirectorySvc interface {
	// ResolveAccount finds an account by account number, falling back to phone number.
	ResolveAccount(ctx context.Context, lookupKey string) (*domain.Account, error)

	// GetBalance returns the current balance of an account.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetAccount returns an account by its internal id.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountOpeningSvc creates new accounts and seeds demo data.
type AccountOpeningSvc interface {
	// OpenAccount creates an account with a fresh account number and posts its opening balance atomically.
	OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error)

	// SeedDemoData creates the demo accounts when no account exists yet.
	SeedDemoData(ctx context.Context) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountDirectorySvc
	AccountOpeningSvc
}
