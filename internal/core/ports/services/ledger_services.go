package services

import (
	"context"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
)

// LedgerReaderSvc defines read operations over an account's ledger history.
type LedgerReaderSvc interface {
	// ListRecentEntries returns the newest entries of an account.
	ListRecentEntries(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error)

	// ListEntries returns the full history of an account, newest first.
	ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
}

// LedgerAuditSvc checks ledger invariants.
type LedgerAuditSvc interface {
	// VerifyBalance checks that the stored balance equals the sum of the account's entries.
	VerifyBalance(ctx context.Context, accountID string) error
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerAuditSvc
}
