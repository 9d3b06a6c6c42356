package repositories

import (
	"context"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByLookupKey retrieves the account whose account number equals key or,
	// when no account number matches, whose phone equals key.
	FindAccountByLookupKey(ctx context.Context, key string) (*domain.Account, error)

	// FindBalance returns the current balance of an account.
	FindBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// LookupKeyInUse reports whether key is already taken as an account number or a phone.
	LookupKeyInUse(ctx context.Context, key string) (bool, error)

	// CountAccounts returns the number of accounts.
	CountAccounts(ctx context.Context) (int, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
// Accounts are created and their balances changed only through a TransferUnit.
type AccountRepositoryFacade interface {
	AccountReader
}
