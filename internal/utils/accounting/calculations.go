package accounting

import (
	"fmt"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumEntries returns the net effect of entries on an account balance: credits add, debits subtract.
func SumEntries(entries []domain.LedgerEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.SignedAmount())
	}
	return sum
}

// ValidateTransferEntries checks that a debit/credit pair describes one balanced transfer.
func ValidateTransferEntries(debit, credit domain.LedgerEntry) error {
	if debit.Direction != domain.Debit || credit.Direction != domain.Credit {
		return fmt.Errorf("transfer %s must consist of one debit and one credit", debit.TransferID)
	}
	if debit.TransferID == "" || debit.TransferID != credit.TransferID {
		return fmt.Errorf("transfer entries %s and %s do not share a transfer id", debit.EntryID, credit.EntryID)
	}
	if !debit.Amount.IsPositive() {
		return fmt.Errorf("transfer amount must be positive for transfer %s", debit.TransferID)
	}
	if sum := debit.SignedAmount().Add(credit.SignedAmount()); !sum.IsZero() {
		return fmt.Errorf("transfer %s does not balance to zero: sum is %s", debit.TransferID, sum.String())
	}
	return nil
}
