package handlers

import (
	"errors"
	"net/http"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/dto"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; specific errors come before the categories they wrap.
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT", "Enter a valid amount."},
	{apperrors.ErrNonPositiveAmount, http.StatusBadRequest, "NON_POSITIVE_AMOUNT", "Amount must be greater than zero."},
	{apperrors.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient balance."},
	{apperrors.ErrRecipientNotFound, http.StatusNotFound, "RECIPIENT_NOT_FOUND", "Recipient not found."},
	{apperrors.ErrSelfTransfer, http.StatusBadRequest, "SELF_TRANSFER", "You cannot transfer to yourself."},
	{apperrors.ErrStorageConflict, http.StatusConflict, "CONFLICT", "Please try again."},
	{apperrors.ErrStorageUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", "Service is temporarily unavailable. Please try again later."},
	{apperrors.ErrNotFound, http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found."},
	{apperrors.ErrValidation, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request."},
}

// errorResponseFor maps a service error to its HTTP status and response body.
func errorResponseFor(err error) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: m.message}
		}
	}
	return http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "Something went wrong. Please try again later."}
}
