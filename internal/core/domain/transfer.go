package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest is an ephemeral request to move funds. SourceAccountID must come from the
// authenticated caller, never from client-supplied account data.
type TransferRequest struct {
	SourceAccountID string
	DestinationKey  string // Account number or phone number
	RawAmount       string
	Note            string
}

// TransferResult describes a committed transfer.
type TransferResult struct {
	TransferID               string          `json:"transferID"`
	Amount                   decimal.Decimal `json:"amount"`
	DestinationName          string          `json:"destinationName"`
	DestinationAccountNumber string          `json:"destinationAccountNumber"`
	SourceBalance            decimal.Decimal `json:"sourceBalance"`
	DestinationBalance       decimal.Decimal `json:"destinationBalance"`
	DebitEntry               LedgerEntry     `json:"debitEntry"`
	CreditEntry              LedgerEntry     `json:"creditEntry"`
	CompletedAt              time.Time       `json:"completedAt"`
}

// DebitDescription returns the note, or the default description for the sending side.
func DebitDescription(note, destinationAccountNumber string) string {
	if note != "" {
		return note
	}
	return "Transfer to " + destinationAccountNumber
}

// CreditDescription returns the note, or the default description for the receiving side.
func CreditDescription(note, sourceAccountNumber string) string {
	if note != "" {
		return note
	}
	return "Transfer from " + sourceAccountNumber
}
