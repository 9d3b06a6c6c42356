package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/simple_bank_app/internal/middleware"
	"github.com/SscSPs/simple_bank_app/internal/utils/mapping"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PgxTransferRepository runs every transfer unit in its own database transaction.
// Serialization failures and deadlocks restart the whole unit with exponential backoff.
type PgxTransferRepository struct {
	BaseRepository
	maxRetries int
	baseDelay  time.Duration
}

func newPgxTransferRepository(db DB, maxRetries int, baseDelay time.Duration) portsrepo.TransferUnitOfWork {
	return &PgxTransferRepository{
		BaseRepository: BaseRepository{Pool: db},
		maxRetries:     maxRetries,
		baseDelay:      baseDelay,
	}
}

var _ portsrepo.TransferUnitOfWork = (*PgxTransferRepository)(nil)

func (r *PgxTransferRepository) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.baseDelay
	eb.MaxInterval = 50 * r.baseDelay
	eb.MaxElapsedTime = 0
	eb.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(r.maxRetries)), ctx)
}

// RunInTransferUnit runs fn inside a transaction and commits it when fn succeeds.
// Errors returned by fn are passed through untouched and never retried.
func (r *PgxTransferRepository) RunInTransferUnit(ctx context.Context, fn func(ctx context.Context, unit portsrepo.TransferUnit) error) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	attempt := 0

	err := backoff.Retry(func() error {
		attempt++
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if isRetryableConflict(err) {
			logger.Warn("Transfer unit hit a concurrent-write conflict", slog.Int("attempt", attempt), slog.String("error", err.Error()))
			return err
		}
		return backoff.Permanent(err)
	}, r.newBackOff(ctx))

	if err != nil && isRetryableConflict(err) {
		return fmt.Errorf("%w after %d attempts: %v", apperrors.ErrStorageConflict, attempt, err)
	}
	return err
}

func (r *PgxTransferRepository) runOnce(ctx context.Context, fn func(ctx context.Context, unit portsrepo.TransferUnit) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := r.Rollback(ctx, tx); rbErr != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to roll back transfer unit", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, &pgxTransferUnit{tx: tx}); err != nil {
		return err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	committed = true
	return nil
}

// pgxTransferUnit stages writes on an open transaction. Row locks taken by LockAccounts
// are held until the transaction ends.
type pgxTransferUnit struct {
	tx        pgx.Tx
	lockTaken bool
	locked    map[string]domain.Account
}

var _ portsrepo.TransferUnit = (*pgxTransferUnit)(nil)

func (u *pgxTransferUnit) ResolveAccount(ctx context.Context, key string) (*domain.Account, error) {
	return findAccountByLookupKey(ctx, u.tx, key)
}

// CreateAccount inserts a new account with a zero balance and claims its lookup keys.
// The inserted row stays invisible to other transactions until commit, so the unit may
// set its balance without locking it first.
func (u *pgxTransferUnit) CreateAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, account_number, phone, name, email, balance, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7);
	`
	_, err := u.tx.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.AccountNumber,
		modelAcc.Phone,
		modelAcc.Name,
		modelAcc.Email,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s conflicts with an existing account", apperrors.ErrDuplicate, modelAcc.AccountNumber)
		}
		return fmt.Errorf("failed to create account %s: %w", modelAcc.AccountID, classify(err))
	}

	keys := []string{modelAcc.AccountNumber}
	if modelAcc.Phone.Valid {
		keys = append(keys, modelAcc.Phone.String)
	}
	for _, key := range keys {
		_, err = u.tx.Exec(ctx, `INSERT INTO account_lookup_keys (lookup_key, account_id) VALUES ($1, $2);`, key, modelAcc.AccountID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: lookup key %s is already in use", apperrors.ErrDuplicate, key)
			}
			return fmt.Errorf("failed to claim lookup key for account %s: %w", modelAcc.AccountID, classify(err))
		}
	}

	if u.locked == nil {
		u.locked = make(map[string]domain.Account)
	}
	account.Balance = decimal.Zero
	u.locked[account.AccountID] = account
	return nil
}

func (u *pgxTransferUnit) LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	if u.lockTaken {
		return nil, errors.New("accounts already locked in this transfer unit")
	}

	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	// Rows are locked in the ORDER BY order, so concurrent units never wait on each other in a cycle.
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := u.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", classify(err))
	}
	defer rows.Close()

	locked := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account: %w", err)
		}
		locked[acc.AccountID] = *acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", classify(err))
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	if u.locked == nil {
		u.locked = make(map[string]domain.Account, len(locked))
	}
	for id, acc := range locked {
		u.locked[id] = acc
	}
	u.lockTaken = true
	return locked, nil
}

func (u *pgxTransferUnit) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error {
	if _, ok := u.locked[accountID]; !ok {
		return fmt.Errorf("account %s was not locked in this transfer unit", accountID)
	}
	tag, err := u.tx.Exec(ctx,
		`UPDATE accounts SET balance = $2, last_updated_at = $3 WHERE account_id = $1;`,
		accountID, balance, now,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, classify(err))
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

func (u *pgxTransferUnit) AppendEntries(ctx context.Context, entries ...domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(query,
			m.EntryID,
			m.TransferID,
			m.AccountID,
			m.Direction,
			m.Amount,
			m.Description,
			m.Counterparty,
			m.BalanceAfter,
			m.CreatedAt,
		)
	}

	br := u.tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to append ledger entries: %w", classify(err))
	}
	return nil
}
