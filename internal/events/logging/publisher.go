// Package logging provides an events.Publisher that only writes events to the request logger.
// It is used when no message broker is configured.
package logging

import (
	"context"
	"log/slog"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/SscSPs/simple_bank_app/internal/core/ports/events"
	"github.com/SscSPs/simple_bank_app/internal/middleware"
)

type Publisher struct{}

var _ events.Publisher = Publisher{}

func (Publisher) PublishTransferCompleted(ctx context.Context, event events.TransferCompleted) error {
	middleware.GetLoggerFromCtx(ctx).Info("Transfer completed event",
		slog.String("transfer_id", event.TransferID),
		slog.String("source_account_number", event.SourceAccountNumber),
		slog.String("destination_account_number", event.DestinationAccountNumber),
		slog.String("amount", domain.FormatAmount(event.Amount)),
	)
	return nil
}
