package memory

import (
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  &AccountRepository{store: store},
		LedgerRepo:   &LedgerRepository{store: store},
		TransferRepo: &TransferRepository{store: store},
	}
}
