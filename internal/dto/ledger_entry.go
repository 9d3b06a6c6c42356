package dto

import (
	"time"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
)

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	EntryID      string                `json:"entryID"`
	TransferID   string                `json:"transferID,omitempty"`
	Direction    domain.EntryDirection `json:"direction"`
	Amount       string                `json:"amount"`
	Description  string                `json:"description"`
	Counterparty string                `json:"counterparty"`
	BalanceAfter string                `json:"balanceAfter"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// ListLedgerEntriesResponse wraps a list of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries []LedgerEntryResponse `json:"entries"`
}

// ListRecentEntriesParams defines query parameters for the recent entries listing.
type ListRecentEntriesParams struct {
	Limit int `form:"limit,default=5" binding:"min=1,max=100"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:      e.EntryID,
		TransferID:   e.TransferID,
		Direction:    e.Direction,
		Amount:       domain.FormatAmount(e.Amount),
		Description:  e.Description,
		Counterparty: e.Counterparty,
		BalanceAfter: domain.FormatAmount(e.BalanceAfter),
		CreatedAt:    e.CreatedAt,
	}
}

// ToListLedgerEntriesResponse converts a slice of domain.LedgerEntry to the list DTO
func ToListLedgerEntriesResponse(entries []domain.LedgerEntry) ListLedgerEntriesResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToLedgerEntryResponse(e)
	}
	return ListLedgerEntriesResponse{Entries: res}
}
