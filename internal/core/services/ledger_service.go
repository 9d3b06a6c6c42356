package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/simple_bank_app/internal/core/ports/services"
	"github.com/SscSPs/simple_bank_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRecentEntries is the number of entries shown on the dashboard.
	DefaultRecentEntries = 5
	MaxRecentEntries     = 100
)

type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerReader
}

func NewLedgerService(ledgerRepo portsrepo.LedgerReader) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ListRecentEntries(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentEntries
	}
	if limit > MaxRecentEntries {
		limit = MaxRecentEntries
	}

	entries, err := s.ledgerRepo.ListRecentEntries(ctx, accountID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent entries", slog.String("account_id", accountID), slog.Int("limit", limit))
		return nil, err
	}
	if entries == nil {
		return []domain.LedgerEntry{}, nil
	}
	return entries, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListEntries(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("account_id", accountID))
		return nil, err
	}
	if entries == nil {
		return []domain.LedgerEntry{}, nil
	}
	return entries, nil
}

// VerifyBalance replays the account's entries from oldest to newest. Every entry's
// BalanceAfter must match the running sum, and the final sum must match the stored balance.
// Balance and entries come from one snapshot, so concurrent transfers never cause a mismatch.
func (s *ledgerService) VerifyBalance(ctx context.Context, accountID string) error {
	balance, entries, err := s.ledgerRepo.BalanceWithEntries(ctx, accountID)
	if err != nil {
		return err
	}

	running := decimal.Zero
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		running = running.Add(e.SignedAmount())
		if !running.Equal(e.BalanceAfter) {
			err := fmt.Errorf("%w: entry %s records %s but replay gives %s",
				apperrors.ErrLedgerMismatch, e.EntryID, domain.FormatAmount(e.BalanceAfter), domain.FormatAmount(running))
			s.LogError(ctx, err, "Ledger replay mismatch", slog.String("account_id", accountID))
			return err
		}
	}

	if sum := accounting.SumEntries(entries); !sum.Equal(balance) {
		err := fmt.Errorf("%w: balance %s, ledger sum %s",
			apperrors.ErrLedgerMismatch, domain.FormatAmount(balance), domain.FormatAmount(sum))
		s.LogError(ctx, err, "Ledger sum mismatch", slog.String("account_id", accountID))
		return err
	}
	return nil
}
