package repositories

import (
	"context"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations for ledger entries. Entries are never updated or
// deleted; new ones are only appended through a TransferUnit.
type LedgerReader interface {
	// ListRecentEntries returns at most limit entries of an account, newest first.
	ListRecentEntries(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error)

	// ListEntries returns the full history of an account, newest first.
	ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)

	// BalanceWithEntries returns the balance and the full history of an account, newest
	// first, as of one point in time. No transfer commits between the two reads.
	BalanceWithEntries(ctx context.Context, accountID string) (decimal.Decimal, []domain.LedgerEntry, error)
}
