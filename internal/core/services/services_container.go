package services

import (
	"github.com/SscSPs/simple_bank_app/internal/core/ports/events"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/simple_bank_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(
			repos.AccountRepo,
			WithTransferUnitOfWork(repos.TransferRepo),
		),
		Transfer: NewTransferService(
			repos.TransferRepo,
			WithPublisher(publisher),
		),
		Ledger: NewLedgerService(repos.LedgerRepo),
	}
}
