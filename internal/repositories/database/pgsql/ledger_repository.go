package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/simple_bank_app/internal/models"
	"github.com/SscSPs/simple_bank_app/internal/utils/mapping"
	"github.com/SscSPs/simple_bank_app/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ledgerEntryColumns = `entry_id, transfer_id, account_id, direction, amount, description, counterparty, balance_after, created_at`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(db DB) portsrepo.LedgerReader {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

// ListRecentEntries returns at most limit entries of an account, newest first.
func (r *PgxLedgerRepository) ListRecentEntries(ctx context.Context, accountID string, limit int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, entry_id DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, classify(err))
	}
	return collectEntries(rows, accountID)
}

// ListEntries returns the full history of an account, newest first.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, entry_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, classify(err))
	}
	return collectEntries(rows, accountID)
}

// BalanceWithEntries reads the balance and the full history of an account inside one
// read-only REPEATABLE READ transaction, so both reflect the same set of commits.
func (r *PgxLedgerRepository) BalanceWithEntries(ctx context.Context, accountID string) (decimal.Decimal, []domain.LedgerEntry, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return decimal.Zero, nil, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to roll back snapshot read", slog.String("error", rbErr.Error()))
		}
	}()

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1;`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil, apperrors.ErrNotFound
		}
		return decimal.Zero, nil, fmt.Errorf("failed to read balance of account %s: %w", accountID, classify(err))
	}

	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, entry_id DESC;
	`
	rows, err := tx.Query(ctx, query, accountID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, classify(err))
	}
	entries, err := collectEntries(rows, accountID)
	if err != nil {
		return decimal.Zero, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return decimal.Zero, nil, err
	}
	committed = true
	return balance, entries, nil
}

func collectEntries(rows pgx.Rows, accountID string) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var e models.LedgerEntry
		err := rows.Scan(
			&e.EntryID,
			&e.TransferID,
			&e.AccountID,
			&e.Direction,
			&e.Amount,
			&e.Description,
			&e.Counterparty,
			&e.BalanceAfter,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row for account %s: %w", accountID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows for account %s: %w", accountID, classify(err))
	}

	return mapping.ToDomainLedgerEntries(entries), nil
}
