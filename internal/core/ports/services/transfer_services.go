package services

import (
	"context"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
)

// TransferSvc moves funds between accounts.
type TransferSvc interface {
	// Transfer validates and atomically applies a transfer. Rejections are returned as
	// errors matching one of the apperrors transfer sentinels; no effect is applied then.
	Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}
