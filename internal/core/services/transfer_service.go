package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/SscSPs/simple_bank_app/internal/core/ports/events"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/simple_bank_app/internal/core/ports/services"
	"github.com/SscSPs/simple_bank_app/internal/utils/accounting"
	"github.com/google/uuid"
)

type transferService struct {
	BaseService
	transferRepo portsrepo.TransferUnitOfWork
	publisher    events.Publisher
}

// TransferServiceOption is a functional option for configuring the transfer service
type TransferServiceOption func(*transferService)

// WithPublisher sets where TransferCompleted events go after commit.
func WithPublisher(publisher events.Publisher) TransferServiceOption {
	return func(s *transferService) {
		s.publisher = publisher
	}
}

// WithTransferClock overrides the time source used for entry timestamps.
func WithTransferClock(now func() time.Time) TransferServiceOption {
	return func(s *transferService) {
		s.Now = now
	}
}

func NewTransferService(transferRepo portsrepo.TransferUnitOfWork, options ...TransferServiceOption) portssvc.TransferSvc {
	svc := &transferService{transferRepo: transferRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransferSvc = (*transferService)(nil)

// isRejection reports whether err is one of the expected transfer outcomes rather than a fault.
func isRejection(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInsufficientFunds)
}

// Transfer moves funds from req.SourceAccountID to the account resolved from
// req.DestinationKey. Checks that depend on balances run after both accounts are locked.
// Rejections are reported in a fixed order: invalid amount, non-positive amount,
// insufficient funds, unknown recipient, self transfer.
func (s *transferService) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	amount, err := domain.ParseAmount(req.RawAmount)
	if err != nil {
		s.LogWarn(ctx, err, "Transfer rejected", slog.String("source_account_id", req.SourceAccountID))
		return nil, err
	}
	if !amount.IsPositive() {
		s.LogWarn(ctx, apperrors.ErrNonPositiveAmount, "Transfer rejected", slog.String("source_account_id", req.SourceAccountID))
		return nil, apperrors.ErrNonPositiveAmount
	}

	key := strings.TrimSpace(req.DestinationKey)
	note := strings.TrimSpace(req.Note)

	var result *domain.TransferResult
	err = s.transferRepo.RunInTransferUnit(ctx, func(ctx context.Context, unit portsrepo.TransferUnit) error {
		// Resolution happens before locking so both rows can be locked in one ordered step.
		var destination *domain.Account
		if key != "" {
			found, err := unit.ResolveAccount(ctx, key)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			destination = found
		}

		ids := []string{req.SourceAccountID}
		if destination != nil {
			ids = append(ids, destination.AccountID)
		}
		locked, err := unit.LockAccounts(ctx, ids...)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("source account %s: %w", req.SourceAccountID, apperrors.ErrNotFound)
			}
			return err
		}

		source := locked[req.SourceAccountID]
		if source.Balance.LessThan(amount) {
			return apperrors.ErrInsufficientFunds
		}
		if destination == nil {
			return apperrors.ErrRecipientNotFound
		}
		if destination.AccountID == source.AccountID {
			return apperrors.ErrSelfTransfer
		}
		target := locked[destination.AccountID]

		newSourceBalance := source.Balance.Sub(amount)
		newTargetBalance := target.Balance.Add(amount)
		if newTargetBalance.GreaterThan(domain.MaxAmount) {
			return fmt.Errorf("%w: recipient balance would exceed the maximum", apperrors.ErrInvalidAmount)
		}

		transferID, err := uuid.NewV7()
		if err != nil {
			return err
		}
		debitID, err := uuid.NewV7()
		if err != nil {
			return err
		}
		creditID, err := uuid.NewV7()
		if err != nil {
			return err
		}

		now := s.now()
		debit := domain.LedgerEntry{
			EntryID:      debitID.String(),
			TransferID:   transferID.String(),
			AccountID:    source.AccountID,
			Direction:    domain.Debit,
			Amount:       amount,
			Description:  domain.DebitDescription(note, target.AccountNumber),
			Counterparty: target.AccountNumber,
			BalanceAfter: newSourceBalance,
			CreatedAt:    now,
		}
		credit := domain.LedgerEntry{
			EntryID:      creditID.String(),
			TransferID:   transferID.String(),
			AccountID:    target.AccountID,
			Direction:    domain.Credit,
			Amount:       amount,
			Description:  domain.CreditDescription(note, source.AccountNumber),
			Counterparty: source.AccountNumber,
			BalanceAfter: newTargetBalance,
			CreatedAt:    now,
		}
		if err := accounting.ValidateTransferEntries(debit, credit); err != nil {
			return err
		}

		if err := unit.SetBalance(ctx, source.AccountID, newSourceBalance, now); err != nil {
			return err
		}
		if err := unit.SetBalance(ctx, target.AccountID, newTargetBalance, now); err != nil {
			return err
		}
		if err := unit.AppendEntries(ctx, debit, credit); err != nil {
			return err
		}

		result = &domain.TransferResult{
			TransferID:               transferID.String(),
			Amount:                   amount,
			DestinationName:          target.Name,
			DestinationAccountNumber: target.AccountNumber,
			SourceBalance:            newSourceBalance,
			DestinationBalance:       newTargetBalance,
			DebitEntry:               debit,
			CreditEntry:              credit,
			CompletedAt:              now,
		}
		return nil
	})
	if err != nil {
		if isRejection(err) {
			s.LogWarn(ctx, err, "Transfer rejected", slog.String("source_account_id", req.SourceAccountID))
		} else {
			s.LogError(ctx, err, "Transfer failed", slog.String("source_account_id", req.SourceAccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transfer committed",
		slog.String("transfer_id", result.TransferID),
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("destination_account_id", result.CreditEntry.AccountID),
		slog.String("amount", domain.FormatAmount(result.Amount)))

	s.publishCompleted(ctx, req.SourceAccountID, result)
	return result, nil
}

// publishCompleted hands the event to the publisher. The transfer is already committed, so a
// failure here is only logged.
func (s *transferService) publishCompleted(ctx context.Context, sourceAccountID string, result *domain.TransferResult) {
	if s.publisher == nil {
		return
	}
	event := events.TransferCompleted{
		TransferID:               result.TransferID,
		SourceAccountID:          sourceAccountID,
		SourceAccountNumber:      result.CreditEntry.Counterparty,
		DestinationAccountID:     result.CreditEntry.AccountID,
		DestinationAccountNumber: result.DestinationAccountNumber,
		Amount:                   result.Amount,
		OccurredAt:               result.CompletedAt,
	}
	if err := s.publisher.PublishTransferCompleted(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish transfer event", slog.String("transfer_id", result.TransferID))
	}
}
