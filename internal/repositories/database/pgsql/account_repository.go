package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/simple_bank_app/internal/models"
	"github.com/SscSPs/simple_bank_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, account_number, phone, name, email, balance, created_at, last_updated_at`

// findByLookupKeyQuery prefers an account-number match over a phone match.
const findByLookupKeyQuery = `
	SELECT ` + accountColumns + ` FROM (
		SELECT ` + accountColumns + `, 0 AS precedence FROM accounts WHERE account_number = $1
		UNION ALL
		SELECT ` + accountColumns + `, 1 AS precedence FROM accounts WHERE phone = $1
	) matches
	ORDER BY precedence
	LIMIT 1;
`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(db DB) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// scanAccount reads one accounts row in accountColumns order.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.AccountNumber,
		&m.Phone,
		&m.Name,
		&m.Email,
		&m.Balance,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, classify(err))
	}
	return acc, nil
}

// FindAccountByLookupKey retrieves an account by account number, falling back to phone.
func (r *PgxAccountRepository) FindAccountByLookupKey(ctx context.Context, key string) (*domain.Account, error) {
	return findAccountByLookupKey(ctx, r.Pool, key)
}

// rowQuerier is satisfied by both the pool and an open transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func findAccountByLookupKey(ctx context.Context, q rowQuerier, key string) (*domain.Account, error) {
	acc, err := scanAccount(q.QueryRow(ctx, findByLookupKeyQuery, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve lookup key: %w", classify(err))
	}
	return acc, nil
}

// FindBalance returns the committed balance of an account.
func (r *PgxAccountRepository) FindBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1;`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to read balance of account %s: %w", accountID, classify(err))
	}
	return balance, nil
}

// LookupKeyInUse reports whether key is already claimed as an account number or phone.
func (r *PgxAccountRepository) LookupKeyInUse(ctx context.Context, key string) (bool, error) {
	var inUse bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM account_lookup_keys WHERE lookup_key = $1);`, key).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("failed to check lookup key: %w", classify(err))
	}
	return inUse, nil
}

// CountAccounts returns the number of accounts.
func (r *PgxAccountRepository) CountAccounts(ctx context.Context) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", classify(err))
	}
	return count, nil
}
