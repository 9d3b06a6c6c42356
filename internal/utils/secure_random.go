package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// GenerateAccountNumber returns a cryptographically random account number in [base, base+span).
// The result is zero-padded to width digits.
func GenerateAccountNumber(base, span int64, width int) (string, error) {
	if span <= 0 || base < 0 {
		return "", fmt.Errorf("invalid account number range base=%d span=%d", base, span)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	value := base + n.Int64()
	if len(strconv.FormatInt(value, 10)) > width {
		return "", fmt.Errorf("account number %d exceeds %d digits", value, width)
	}
	return fmt.Sprintf("%0*d", width, value), nil
}
