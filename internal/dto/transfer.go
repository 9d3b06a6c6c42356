package dto

import (
	"time"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
)

// CreateTransferRequest is the body of a transfer request. The source account is never
// part of it; it comes from the authenticated caller.
type CreateTransferRequest struct {
	ToAccountOrPhone string `json:"toAccountOrPhone" binding:"max=32"`
	Amount           string `json:"amount" binding:"max=32"`
	Note             string `json:"note" binding:"max=255"`
}

// TransferResponse defines the data returned for a committed transfer.
type TransferResponse struct {
	Message                  string    `json:"message"`
	TransferID               string    `json:"transferID"`
	Amount                   string    `json:"amount"`
	DestinationName          string    `json:"destinationName"`
	DestinationAccountNumber string    `json:"destinationAccountNumber"`
	SourceBalance            string    `json:"sourceBalance"`
	DestinationBalance       string    `json:"destinationBalance"`
	CompletedAt              time.Time `json:"completedAt"`
}

// ErrorResponse is returned for every rejected request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToTransferResponse converts a domain.TransferResult to TransferResponse DTO
func ToTransferResponse(res *domain.TransferResult, message string) TransferResponse {
	return TransferResponse{
		Message:                  message,
		TransferID:               res.TransferID,
		Amount:                   domain.FormatAmount(res.Amount),
		DestinationName:          res.DestinationName,
		DestinationAccountNumber: res.DestinationAccountNumber,
		SourceBalance:            domain.FormatAmount(res.SourceBalance),
		DestinationBalance:       domain.FormatAmount(res.DestinationBalance),
		CompletedAt:              res.CompletedAt,
	}
}
