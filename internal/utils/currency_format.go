package utils

import (
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencySymbol is prefixed to amounts shown to customers.
const CurrencySymbol = "₹"

// FormatRupees formats an amount for display with the currency symbol and two fractional digits.
// Example: 40 returns "₹40.00"
func FormatRupees(amount decimal.Decimal) string {
	return CurrencySymbol + domain.FormatAmount(amount)
}
