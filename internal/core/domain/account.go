package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a customer bank account within the core domain.
// Balance is only ever changed by the transfer engine.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	AccountNumber string          `json:"accountNumber"` // Unique, fixed-format numeric string
	Phone         string          `json:"phone"`         // Optional, unique when set
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Balance       decimal.Decimal `json:"balance"` // 2 fractional digits, never negative
	AuditFields
}

// AccountNumberLength is the fixed length of every account number.
const AccountNumberLength = 10

// IsValidLookupKey reports whether s has the shape of an account number or phone number:
// an optional leading '+' followed by digits, at most 15 characters in total.
func IsValidLookupKey(s string) bool {
	if len(s) > 15 {
		return false
	}
	if len(s) > 0 && s[0] == '+' {
		s = s[1:]
	}
	if len(s) < 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
