package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type TransferRepository struct {
	store *Store
}

var _ portsrepo.TransferUnitOfWork = (*TransferRepository)(nil)

// RunInTransferUnit stages fn's writes and applies them under the store lock in one step.
// Account mutexes taken by the unit are released only after that step.
func (r *TransferRepository) RunInTransferUnit(ctx context.Context, fn func(ctx context.Context, unit portsrepo.TransferUnit) error) error {
	unit := &transferUnit{store: r.store}
	defer unit.release()

	if err := fn(ctx, unit); err != nil {
		return err
	}
	return unit.commit()
}

type stagedBalance struct {
	balance decimal.Decimal
	at      time.Time
}

type transferUnit struct {
	store     *Store
	held      []*sync.Mutex
	lockTaken bool
	locked    map[string]domain.Account
	created   []domain.Account
	balances  map[string]stagedBalance
	entries   []domain.LedgerEntry
}

var _ portsrepo.TransferUnit = (*transferUnit)(nil)

func (u *transferUnit) ResolveAccount(_ context.Context, key string) (*domain.Account, error) {
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()

	acc, ok := u.store.lookup(key)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

// CreateAccount stages account with a zero balance. Nobody else can see it before commit,
// so it needs no mutex and counts as locked by this unit right away.
func (u *transferUnit) CreateAccount(_ context.Context, account domain.Account) error {
	for _, staged := range u.created {
		if clash(staged, account) {
			return fmt.Errorf("%w: account %s clashes with another new account", apperrors.ErrDuplicate, account.AccountNumber)
		}
	}

	u.store.mu.RLock()
	err := u.store.checkNew(account)
	u.store.mu.RUnlock()
	if err != nil {
		return err
	}

	account.Balance = decimal.Zero
	u.created = append(u.created, account)
	if u.locked == nil {
		u.locked = make(map[string]domain.Account)
	}
	u.locked[account.AccountID] = account
	return nil
}

// clash reports whether two new accounts share an id, an email or any lookup key.
func clash(a, b domain.Account) bool {
	if a.AccountID == b.AccountID || a.Email == b.Email {
		return true
	}
	for _, ka := range []string{a.AccountNumber, a.Phone} {
		for _, kb := range []string{b.AccountNumber, b.Phone} {
			if ka != "" && ka == kb {
				return true
			}
		}
	}
	return false
}

func (u *transferUnit) LockAccounts(ctx context.Context, accountIDs ...string) (map[string]domain.Account, error) {
	if u.lockTaken {
		return nil, errors.New("accounts already locked in this transfer unit")
	}

	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	u.store.mu.RLock()
	for _, id := range ids {
		if _, ok := u.store.accounts[id]; !ok {
			u.store.mu.RUnlock()
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	u.store.mu.RUnlock()
	u.lockTaken = true

	// Ascending id order keeps two units that share accounts from deadlocking.
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l := u.store.accountLock(id)
		l.Lock()
		u.held = append(u.held, l)
	}

	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	locked := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		locked[id] = u.store.accounts[id]
	}
	if u.locked == nil {
		u.locked = make(map[string]domain.Account, len(ids))
	}
	for id, acc := range locked {
		u.locked[id] = acc
	}
	return locked, nil
}

func (u *transferUnit) SetBalance(_ context.Context, accountID string, balance decimal.Decimal, now time.Time) error {
	if _, ok := u.locked[accountID]; !ok {
		return fmt.Errorf("account %s was not locked in this transfer unit", accountID)
	}
	if balance.IsNegative() {
		return fmt.Errorf("balance of account %s would become negative", accountID)
	}
	if u.balances == nil {
		u.balances = make(map[string]stagedBalance)
	}
	u.balances[accountID] = stagedBalance{balance: balance, at: now}
	return nil
}

func (u *transferUnit) AppendEntries(_ context.Context, entries ...domain.LedgerEntry) error {
	for _, e := range entries {
		if _, ok := u.locked[e.AccountID]; !ok {
			return fmt.Errorf("account %s was not locked in this transfer unit", e.AccountID)
		}
		if !e.Amount.IsPositive() {
			return fmt.Errorf("ledger entry %s must have a positive amount", e.EntryID)
		}
	}
	u.entries = append(u.entries, entries...)
	return nil
}

// commit applies every staged write or none. New accounts are checked again because
// another unit may have claimed one of their keys since CreateAccount.
func (u *transferUnit) commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for _, account := range u.created {
		if err := u.store.checkNew(account); err != nil {
			return err
		}
	}
	for _, account := range u.created {
		u.store.insert(account)
	}
	for id, staged := range u.balances {
		acc := u.store.accounts[id]
		acc.Balance = staged.balance
		acc.LastUpdatedAt = staged.at
		u.store.accounts[id] = acc
	}
	for _, e := range u.entries {
		u.store.entries[e.AccountID] = append(u.store.entries[e.AccountID], e)
	}
	return nil
}

func (u *transferUnit) release() {
	for i := len(u.held) - 1; i >= 0; i-- {
		u.held[i].Unlock()
	}
	u.held = nil
}
