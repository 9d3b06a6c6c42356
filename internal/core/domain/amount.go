package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for every monetary value.
const AmountPlaces = 2

// maxAmountInputLen bounds the raw input before it reaches the decimal parser.
const maxAmountInputLen = 32

// MaxAmount is the largest value a NUMERIC(12,2) balance column can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ParseAmount parses raw as an exact decimal and rounds it half-up to two places.
// "10.005" becomes 10.01 and "10.004" becomes 10.00. The sign is not checked here, so
// callers see zero and negative values as such. Negatives below -MaxAmount saturate
// to -MaxAmount; positives above MaxAmount are ErrInvalidAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxAmountInputLen {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidAmount, raw)
	}
	// Extreme exponents like "1e999999" would make rounding allocate huge integers, so
	// they are settled before rounding. An input this short with an exponent below
	// -maxAmountInputLen is always smaller than half a paisa.
	if d.Exponent() < -maxAmountInputLen {
		return decimal.Zero, nil
	}
	if d.Exponent() > 12 {
		switch d.Sign() {
		case 0:
			return decimal.Zero, nil
		case -1:
			return MaxAmount.Neg(), nil
		}
		return decimal.Zero, fmt.Errorf("%w: %q exceeds the maximum transferable amount", apperrors.ErrInvalidAmount, raw)
	}

	// decimal.Round rounds half away from zero, which is half-up for the positive amounts we accept.
	rounded := d.Round(AmountPlaces)
	if rounded.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %q exceeds the maximum transferable amount", apperrors.ErrInvalidAmount, raw)
	}
	if rounded.LessThan(MaxAmount.Neg()) {
		return MaxAmount.Neg(), nil
	}
	return rounded, nil
}

// FormatAmount renders a monetary value with exactly two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}
