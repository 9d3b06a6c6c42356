package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
)

// RetryPolicy bounds how often a transfer unit is restarted after a concurrent-write conflict.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func NewRepositoryProvider(dbPool DB, retry RetryPolicy) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		TransferRepo: newPgxTransferRepository(dbPool, retry.MaxRetries, retry.BaseDelay),
	}
}
