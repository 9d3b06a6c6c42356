package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection mirrors the direction CHECK constraint of ledger_entries.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// LedgerEntry is one append-only row of ledger_entries.
type LedgerEntry struct {
	EntryID      string          `db:"entry_id"`
	TransferID   string          `db:"transfer_id"`
	AccountID    string          `db:"account_id"`
	Direction    EntryDirection  `db:"direction"`
	Amount       decimal.Decimal `db:"amount"`
	Description  string          `db:"description"`
	Counterparty string          `db:"counterparty"`
	BalanceAfter decimal.Decimal `db:"balance_after"`
	CreatedAt    time.Time       `db:"created_at"`
}
