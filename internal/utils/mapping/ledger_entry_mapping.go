package mapping

import (
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/SscSPs/simple_bank_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		TransferID:   d.TransferID,
		AccountID:    d.AccountID,
		Direction:    models.EntryDirection(d.Direction),
		Amount:       d.Amount,
		Description:  d.Description,
		Counterparty: d.Counterparty,
		BalanceAfter: d.BalanceAfter,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		TransferID:   m.TransferID,
		AccountID:    m.AccountID,
		Direction:    domain.EntryDirection(m.Direction),
		Amount:       m.Amount,
		Description:  m.Description,
		Counterparty: m.Counterparty,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainLedgerEntries converts a slice of model LedgerEntry to domain LedgerEntry
func ToDomainLedgerEntries(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
