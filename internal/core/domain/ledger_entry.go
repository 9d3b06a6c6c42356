package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection indicates whether a ledger entry removes funds from or adds funds to an account.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// OpeningBalanceDescription is the description of the credit that opens an account.
const OpeningBalanceDescription = "Opening balance"

// LedgerEntry is the immutable audit record of one side of a balance-affecting event.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`    // UUIDv7, ordered by creation time
	TransferID   string          `json:"transferID"` // Shared by the debit and credit of one transfer
	AccountID    string          `json:"accountID"`
	Direction    EntryDirection  `json:"direction"`
	Amount       decimal.Decimal `json:"amount"` // Always positive
	Description  string          `json:"description"`
	Counterparty string          `json:"counterparty"` // Other side's account number, may be empty
	BalanceAfter decimal.Decimal `json:"balanceAfter"` // Account balance right after this entry
	CreatedAt    time.Time       `json:"createdAt"`
}

// SignedAmount returns the entry amount with the sign it applies to the account balance.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == Debit {
		return e.Amount.Neg()
	}
	return e.Amount
}
