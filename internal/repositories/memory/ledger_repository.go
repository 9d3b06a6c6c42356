package memory

import (
	"context"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type LedgerRepository struct {
	store *Store
}

var _ portsrepo.LedgerReader = (*LedgerRepository)(nil)

func (r *LedgerRepository) ListRecentEntries(_ context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return newestFirst(r.store.entries[accountID], limit), nil
}

func (r *LedgerRepository) ListEntries(_ context.Context, accountID string) ([]domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return newestFirst(r.store.entries[accountID], -1), nil
}

// BalanceWithEntries reads both under one read lock. Commits take the write lock, so
// none can land between the two reads.
func (r *LedgerRepository) BalanceWithEntries(_ context.Context, accountID string) (decimal.Decimal, []domain.LedgerEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	acc, ok := r.store.accounts[accountID]
	if !ok {
		return decimal.Zero, nil, apperrors.ErrNotFound
	}
	return acc.Balance, newestFirst(r.store.entries[accountID], -1), nil
}

// newestFirst copies up to limit entries in reverse append order. A negative limit means all.
func newestFirst(entries []domain.LedgerEntry, limit int) []domain.LedgerEntry {
	n := len(entries)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]domain.LedgerEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out
}
