package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferUnit exposes the operations available inside one atomic balance-changing unit.
// Nothing done through a unit is visible to other readers until the unit commits.
type TransferUnit interface {
	// ResolveAccount finds an account by lookup key without locking it.
	ResolveAccount(ctx context.Context, key string) (*domain.Account, error)

	// CreateAccount stages a new account with a zero balance. The account counts as locked
	// by this unit, so its opening balance can be set in the same unit. A clash with an
	// existing account on any unique field yields apperrors.ErrDuplicate.
	CreateAccount(ctx context.Context, account domain.Account) error

	// LockAccounts exclusively locks the given accounts in ascending id order and returns
	// their current state. It may be called at most once per unit.
	LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error)

	// SetBalance stages the new balance of a locked account.
	SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error

	// AppendEntries stages immutable ledger entries.
	AppendEntries(ctx context.Context, entries ...domain.LedgerEntry) error
}

// TransferUnitOfWork runs fn inside one atomic unit. If fn returns an error every staged
// effect is discarded; otherwise all of them become visible together.
type TransferUnitOfWork interface {
	RunInTransferUnit(ctx context.Context, fn func(ctx context.Context, unit TransferUnit) error) error
}
