// Package memory keeps accounts and ledger entries in process memory. It backs the
// service when STORAGE_DRIVER=memory and gives tests the same atomicity guarantees
// as the PostgreSQL repositories.
package memory

import (
	"fmt"
	"sync"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
)

// Store holds committed state. Readers take mu; a transfer unit additionally holds the
// per-account mutexes of every account it touches until it commits or aborts.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	byNumber map[string]string
	byPhone  map[string]string
	byEmail  map[string]string
	entries  map[string][]domain.LedgerEntry // oldest first

	lockMu       sync.Mutex
	accountLocks map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		byNumber:     make(map[string]string),
		byPhone:      make(map[string]string),
		byEmail:      make(map[string]string),
		entries:      make(map[string][]domain.LedgerEntry),
		accountLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) accountLock(accountID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.accountLocks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.accountLocks[accountID] = l
	}
	return l
}

// lookup resolves key with account-number precedence. Callers hold mu.
func (s *Store) lookup(key string) (domain.Account, bool) {
	if id, ok := s.byNumber[key]; ok {
		return s.accounts[id], true
	}
	if id, ok := s.byPhone[key]; ok {
		return s.accounts[id], true
	}
	return domain.Account{}, false
}

func (s *Store) keyInUse(key string) bool {
	_, number := s.byNumber[key]
	_, phone := s.byPhone[key]
	return number || phone
}

// checkNew reports apperrors.ErrDuplicate when account clashes with a stored one. Account
// numbers and phones share one key space, so a phone equal to another account's number
// is a duplicate too. Callers hold mu.
func (s *Store) checkNew(account domain.Account) error {
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	if account.Phone != "" && account.Phone == account.AccountNumber {
		return fmt.Errorf("%w: phone equals account number %s", apperrors.ErrDuplicate, account.AccountNumber)
	}
	for _, key := range []string{account.AccountNumber, account.Phone} {
		if key != "" && s.keyInUse(key) {
			return fmt.Errorf("%w: lookup key %s is already in use", apperrors.ErrDuplicate, key)
		}
	}
	if _, ok := s.byEmail[account.Email]; ok {
		return fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, account.Email)
	}
	return nil
}

// insert stores a checked account and indexes its keys. Callers hold mu for writing.
func (s *Store) insert(account domain.Account) {
	s.accounts[account.AccountID] = account
	s.byNumber[account.AccountNumber] = account.AccountID
	if account.Phone != "" {
		s.byPhone[account.Phone] = account.AccountID
	}
	s.byEmail[account.Email] = account.AccountID
}
