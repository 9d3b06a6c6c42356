package dto

import (
	"time"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest defines the data needed to open a new account.
type OpenAccountRequest struct {
	Name           string          `json:"name" validate:"required,max=120"`
	Email          string          `json:"email" validate:"required,email,max=120"`
	Phone          string          `json:"phone" validate:"omitempty,lookupkey"`
	AccountNumber  string          `json:"-" validate:"omitempty,numeric,len=10"` // Fixed number for seeded accounts; generated when empty
	OpeningBalance decimal.Decimal `json:"-"` // Posted as an opening credit when positive
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string    `json:"accountID"`
	AccountNumber string    `json:"accountNumber"`
	Phone         string    `json:"phone,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		Phone:         acc.Phone,
		Name:          acc.Name,
		Email:         acc.Email,
		Balance:       domain.FormatAmount(acc.Balance),
		CreatedAt:     acc.CreatedAt,
	}
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID string `json:"accountID"`
	Balance   string `json:"balance"`
}
