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
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/simple_bank_app/internal/core/ports/services"
	"github.com/SscSPs/simple_bank_app/internal/dto"
	"github.com/SscSPs/simple_bank_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// New account numbers are drawn from [AccountNumberBase, AccountNumberBase+AccountNumberSpan).
const (
	AccountNumberBase  int64 = 1002003000
	AccountNumberSpan  int64 = 1000
	maxNumberAttempts        = 20
	lookupKeyValidator       = "lookupkey"
)

type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	transferRepo portsrepo.TransferUnitOfWork
	validate     *validator.Validate
}

// ServiceOption is a functional option for configuring the account service
type ServiceOption func(*accountService)

// WithTransferUnitOfWork sets the unit of work that creates accounts. OpenAccount fails without one.
func WithTransferUnitOfWork(uow portsrepo.TransferUnitOfWork) ServiceOption {
	return func(s *accountService) {
		s.transferRepo = uow
	}
}

// WithAccountClock overrides the time source used for audit fields.
func WithAccountClock(now func() time.Time) ServiceOption {
	return func(s *accountService) {
		s.Now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or a nil func.
	_ = validate.RegisterValidation(lookupKeyValidator, func(fl validator.FieldLevel) bool {
		return domain.IsValidLookupKey(fl.Field().String())
	})

	svc := &accountService{
		accountRepo: repo,
		validate:    validate,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// ResolveAccount finds the account whose account number equals lookupKey or, failing that,
// whose phone does. Surrounding whitespace is ignored.
func (s *accountService) ResolveAccount(ctx context.Context, lookupKey string) (*domain.Account, error) {
	key := strings.TrimSpace(lookupKey)
	if key == "" {
		return nil, apperrors.ErrRecipientNotFound
	}

	account, err := s.accountRepo.FindAccountByLookupKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrRecipientNotFound
		}
		s.LogError(ctx, err, "Failed to resolve account")
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	balance, err := s.accountRepo.FindBalance(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to read balance", slog.String("account_id", accountID))
		}
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// OpenAccount creates an account and posts a positive OpeningBalance as its opening
// credit. Both happen in one transfer unit, so a failure leaves no account behind.
func (s *accountService) OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error) {
	opened, err := s.openAccounts(ctx, req)
	if err != nil {
		return nil, err
	}
	return &opened[0], nil
}

// openAccounts creates every requested account in a single transfer unit.
func (s *accountService) openAccounts(ctx context.Context, reqs ...dto.OpenAccountRequest) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(reqs))
	openings := make([]decimal.Decimal, 0, len(reqs))
	for _, req := range reqs {
		account, err := s.prepareAccount(ctx, req)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
		openings = append(openings, req.OpeningBalance)
	}
	if s.transferRepo == nil {
		return nil, errors.New("account service has no transfer unit of work")
	}

	err := s.transferRepo.RunInTransferUnit(ctx, func(ctx context.Context, unit portsrepo.TransferUnit) error {
		for i := range accounts {
			accounts[i].Balance = decimal.Zero
			if err := unit.CreateAccount(ctx, accounts[i]); err != nil {
				return err
			}
			if !openings[i].IsPositive() {
				continue
			}
			if err := s.postOpeningCredit(ctx, unit, accounts[i].AccountID, openings[i]); err != nil {
				return err
			}
			accounts[i].Balance = openings[i]
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to open account", slog.Int("accounts", len(accounts)))
		}
		return nil, err
	}

	for _, account := range accounts {
		s.LogInfo(ctx, "Account opened",
			slog.String("account_id", account.AccountID),
			slog.String("account_number", account.AccountNumber))
	}
	return accounts, nil
}

// prepareAccount validates req and picks the account number. Lookup keys are checked
// here to fail fast; the transfer unit enforces uniqueness again when it creates the row.
func (s *accountService) prepareAccount(ctx context.Context, req dto.OpenAccountRequest) (domain.Account, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.AccountNumber = strings.TrimSpace(req.AccountNumber)

	if err := s.validate.Struct(req); err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.OpeningBalance.IsNegative() || !req.OpeningBalance.Equal(req.OpeningBalance.Round(domain.AmountPlaces)) {
		return domain.Account{}, fmt.Errorf("%w: opening balance must be a non-negative amount with at most two decimals", apperrors.ErrValidation)
	}
	if req.OpeningBalance.GreaterThan(domain.MaxAmount) {
		return domain.Account{}, fmt.Errorf("%w: opening balance exceeds the maximum", apperrors.ErrValidation)
	}

	if req.Phone != "" {
		if err := s.ensureKeyFree(ctx, req.Phone); err != nil {
			return domain.Account{}, err
		}
	}

	accountNumber := req.AccountNumber
	if accountNumber == "" {
		generated, err := s.nextAccountNumber(ctx, req.Phone)
		if err != nil {
			return domain.Account{}, err
		}
		accountNumber = generated
	} else {
		if accountNumber == req.Phone {
			return domain.Account{}, fmt.Errorf("%w: phone equals account number", apperrors.ErrDuplicate)
		}
		if err := s.ensureKeyFree(ctx, accountNumber); err != nil {
			return domain.Account{}, err
		}
	}

	now := s.now()
	return domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: accountNumber,
		Phone:         req.Phone,
		Name:          req.Name,
		Email:         req.Email,
		Balance:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}, nil
}

func (s *accountService) ensureKeyFree(ctx context.Context, key string) error {
	inUse, err := s.accountRepo.LookupKeyInUse(ctx, key)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: %s is already registered", apperrors.ErrDuplicate, key)
	}
	return nil
}

func (s *accountService) nextAccountNumber(ctx context.Context, phone string) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate, err := utils.GenerateAccountNumber(AccountNumberBase, AccountNumberSpan, domain.AccountNumberLength)
		if err != nil {
			return "", err
		}
		if candidate == phone {
			continue
		}
		inUse, err := s.accountRepo.LookupKeyInUse(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no free account number after %d attempts", apperrors.ErrDuplicate, maxNumberAttempts)
}

// postOpeningCredit credits amount to an account created earlier in the same unit.
func (s *accountService) postOpeningCredit(ctx context.Context, unit portsrepo.TransferUnit, accountID string, amount decimal.Decimal) error {
	entryID, err := uuid.NewV7()
	if err != nil {
		return err
	}

	now := s.now()
	if err := unit.SetBalance(ctx, accountID, amount, now); err != nil {
		return err
	}
	return unit.AppendEntries(ctx, domain.LedgerEntry{
		EntryID:      entryID.String(),
		TransferID:   uuid.NewString(),
		AccountID:    accountID,
		Direction:    domain.Credit,
		Amount:       amount,
		Description:  domain.OpeningBalanceDescription,
		BalanceAfter: amount,
		CreatedAt:    now,
	})
}

// demoAccounts are the customers created on first start when seeding is enabled.
var demoAccounts = []dto.OpenAccountRequest{
	{
		Name:           "Sharanya Lakshmi",
		Email:          "user1@example.com",
		Phone:          "9876543210",
		AccountNumber:  "1002003001",
		OpeningBalance: decimal.RequireFromString("10000.00"),
	},
	{
		Name:           "Demo User",
		Email:          "user2@example.com",
		Phone:          "1234567890",
		AccountNumber:  "1002003002",
		OpeningBalance: decimal.RequireFromString("5000.00"),
	},
}

// SeedDemoData opens the demo accounts unless any account already exists. All of them are
// opened in one transfer unit, so a failed seed leaves the store empty for the next try.
func (s *accountService) SeedDemoData(ctx context.Context) error {
	count, err := s.accountRepo.CountAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if count > 0 {
		s.LogDebug(ctx, "Accounts exist, skipping demo seed", slog.Int("accounts", count))
		return nil
	}

	if _, err := s.openAccounts(ctx, demoAccounts...); err != nil {
		return fmt.Errorf("failed to seed demo accounts: %w", err)
	}
	s.LogInfo(ctx, "Demo accounts seeded", slog.Int("accounts", len(demoAccounts)))
	return nil
}
