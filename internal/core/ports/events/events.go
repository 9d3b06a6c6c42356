package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransferCompleted is published once a transfer has been committed.
type TransferCompleted struct {
	TransferID               string          `json:"transfer_id"`
	SourceAccountID          string          `json:"source_account_id"`
	SourceAccountNumber      string          `json:"source_account_number"`
	DestinationAccountID     string          `json:"destination_account_id"`
	DestinationAccountNumber string          `json:"destination_account_number"`
	Amount                   decimal.Decimal `json:"amount"`
	OccurredAt               time.Time       `json:"occurred_at"`
}

// Publisher delivers domain events to interested parties outside this service.
type Publisher interface {
	PublishTransferCompleted(ctx context.Context, event TransferCompleted) error
}
