package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/SscSPs/simple_bank_app/internal/core/ports/events"
	portsrepo "github.com/SscSPs/simple_bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/simple_bank_app/internal/core/ports/services"
	"github.com/SscSPs/simple_bank_app/internal/core/services"
	"github.com/SscSPs/simple_bank_app/internal/dto"
	"github.com/SscSPs/simple_bank_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransferServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	repos     portsrepo.RepositoryProvider
	accounts  portssvc.AccountSvcFacade
	ledger    portssvc.LedgerSvcFacade
	transfers portssvc.TransferSvc
	publisher *MockPublisher
}

func (s *TransferServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	s.repos = memory.NewRepositoryProvider(memory.NewStore())
	s.publisher = new(MockPublisher)
	clock := func() time.Time { return s.now }

	s.accounts = services.NewAccountService(s.repos.AccountRepo,
		services.WithTransferUnitOfWork(s.repos.TransferRepo),
		services.WithAccountClock(clock))
	s.ledger = services.NewLedgerService(s.repos.LedgerRepo)
	s.transfers = services.NewTransferService(s.repos.TransferRepo,
		services.WithPublisher(s.publisher),
		services.WithTransferClock(clock))
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}

// open creates an account with the given opening balance.
func (s *TransferServiceTestSuite) open(number, phone, name, balance string) *domain.Account {
	acc, err := s.accounts.OpenAccount(s.ctx, dto.OpenAccountRequest{
		Name:           name,
		Email:          number + "@example.com",
		Phone:          phone,
		AccountNumber:  number,
		OpeningBalance: decimal.RequireFromString(balance),
	})
	s.Require().NoError(err)
	return acc
}

func (s *TransferServiceTestSuite) balance(accountID string) string {
	b, err := s.accounts.GetBalance(s.ctx, accountID)
	s.Require().NoError(err)
	return domain.FormatAmount(b)
}

func (s *TransferServiceTestSuite) entries(accountID string) []domain.LedgerEntry {
	e, err := s.ledger.ListEntries(s.ctx, accountID)
	s.Require().NoError(err)
	return e
}

func (s *TransferServiceTestSuite) expectPublish() {
	s.publisher.On("PublishTransferCompleted", mock.Anything, mock.AnythingOfType("events.TransferCompleted")).Return(nil)
}

func (s *TransferServiceTestSuite) TestTransfer_Success() {
	src := s.open("1002003001", "9876543210", "Sharanya Lakshmi", "100.00")
	dst := s.open("1002003002", "1234567890", "Demo User", "5.00")
	s.expectPublish()

	res, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{
		SourceAccountID: src.AccountID,
		DestinationKey:  "1002003002",
		RawAmount:       "40.00",
	})
	s.Require().NoError(err)

	s.Equal("40.00", domain.FormatAmount(res.Amount))
	s.Equal("Demo User", res.DestinationName)
	s.Equal("1002003002", res.DestinationAccountNumber)
	s.Equal("60.00", domain.FormatAmount(res.SourceBalance))
	s.Equal("45.00", domain.FormatAmount(res.DestinationBalance))
	s.Equal(s.now, res.CompletedAt)

	s.Equal("60.00", s.balance(src.AccountID))
	s.Equal("45.00", s.balance(dst.AccountID))

	srcEntries := s.entries(src.AccountID)
	dstEntries := s.entries(dst.AccountID)
	s.Require().Len(srcEntries, 2)
	s.Require().Len(dstEntries, 2)

	debit, credit := srcEntries[0], dstEntries[0]
	s.Equal(domain.Debit, debit.Direction)
	s.Equal(domain.Credit, credit.Direction)
	s.Equal(res.TransferID, debit.TransferID)
	s.Equal(res.TransferID, credit.TransferID)
	s.True(debit.Amount.Equal(credit.Amount))
	s.Equal("Transfer to 1002003002", debit.Description)
	s.Equal("Transfer from 1002003001", credit.Description)
	s.Equal("1002003002", debit.Counterparty)
	s.Equal("1002003001", credit.Counterparty)
	s.Equal("60.00", domain.FormatAmount(debit.BalanceAfter))
	s.Equal("45.00", domain.FormatAmount(credit.BalanceAfter))

	s.NoError(s.ledger.VerifyBalance(s.ctx, src.AccountID))
	s.NoError(s.ledger.VerifyBalance(s.ctx, dst.AccountID))

	s.publisher.AssertCalled(s.T(), "PublishTransferCompleted", mock.Anything, mock.MatchedBy(func(e events.TransferCompleted) bool {
		return e.TransferID == res.TransferID &&
			e.SourceAccountID == src.AccountID &&
			e.SourceAccountNumber == "1002003001" &&
			e.DestinationAccountID == dst.AccountID &&
			e.Amount.Equal(res.Amount)
	}))
}

func (s *TransferServiceTestSuite) TestTransfer_ByPhoneWithNote() {
	src := s.open("1002003001", "9876543210", "Sharanya Lakshmi", "100.00")
	dst := s.open("1002003002", "1234567890", "Demo User", "0.00")
	s.expectPublish()

	res, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{
		SourceAccountID: src.AccountID,
		DestinationKey:  " 1234567890 ",
		RawAmount:       "12.5",
		Note:            "Dinner",
	})
	s.Require().NoError(err)
	s.Equal(dst.AccountID, res.CreditEntry.AccountID)
	s.Equal("Dinner", res.DebitEntry.Description)
	s.Equal("Dinner", res.CreditEntry.Description)
	s.Equal("12.50", s.balance(dst.AccountID))
}

func (s *TransferServiceTestSuite) TestTransfer_RoundsHalfUp() {
	src := s.open("1002003001", "", "A", "100.00")
	dst := s.open("1002003002", "", "B", "0.00")
	s.expectPublish()

	res, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: src.AccountID, DestinationKey: "1002003002", RawAmount: "10.005"})
	s.Require().NoError(err)
	s.Equal("10.01", domain.FormatAmount(res.Amount))

	res, err = s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: src.AccountID, DestinationKey: "1002003002", RawAmount: "10.004"})
	s.Require().NoError(err)
	s.Equal("10.00", domain.FormatAmount(res.Amount))

	s.Equal("79.99", s.balance(src.AccountID))
	s.Equal("20.01", s.balance(dst.AccountID))
}

func (s *TransferServiceTestSuite) TestTransfer_ExactBalanceAllowed() {
	src := s.open("1002003001", "", "A", "10.00")
	s.open("1002003002", "", "B", "0.00")
	s.expectPublish()

	_, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: src.AccountID, DestinationKey: "1002003002", RawAmount: "10"})
	s.Require().NoError(err)
	s.Equal("0.00", s.balance(src.AccountID))
}

func (s *TransferServiceTestSuite) TestTransfer_Rejections() {
	src := s.open("1002003001", "9876543210", "A", "10.00")
	dst := s.open("1002003002", "1234567890", "B", "5.00")

	tests := []struct {
		name    string
		key     string
		amount  string
		wantErr error
	}{
		{name: "insufficient funds", key: "1002003002", amount: "10.01", wantErr: apperrors.ErrInsufficientFunds},
		{name: "negative amount", key: "1002003002", amount: "-5", wantErr: apperrors.ErrNonPositiveAmount},
		{name: "not a number", key: "1002003002", amount: "abc", wantErr: apperrors.ErrInvalidAmount},
		{name: "zero", key: "1002003002", amount: "0", wantErr: apperrors.ErrNonPositiveAmount},
		{name: "rounds to zero", key: "1002003002", amount: "0.004", wantErr: apperrors.ErrNonPositiveAmount},
		{name: "tiny exponent", key: "1002003002", amount: "1e-40", wantErr: apperrors.ErrNonPositiveAmount},
		{name: "negative huge exponent", key: "1002003002", amount: "-1e13", wantErr: apperrors.ErrNonPositiveAmount},
		{name: "unknown recipient", key: "5550000", amount: "1.00", wantErr: apperrors.ErrRecipientNotFound},
		{name: "empty recipient", key: "  ", amount: "1.00", wantErr: apperrors.ErrRecipientNotFound},
		{name: "self by account number", key: "1002003001", amount: "1.00", wantErr: apperrors.ErrSelfTransfer},
		{name: "self by phone", key: "9876543210", amount: "1.00", wantErr: apperrors.ErrSelfTransfer},
		{name: "invalid amount wins over unknown recipient", key: "5550000", amount: "abc", wantErr: apperrors.ErrInvalidAmount},
		{name: "insufficient funds wins over unknown recipient", key: "5550000", amount: "11", wantErr: apperrors.ErrInsufficientFunds},
		{name: "insufficient funds wins over self transfer", key: "1002003001", amount: "11", wantErr: apperrors.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			// Repeating a rejected request has the same outcome and no effect.
			for i := 0; i < 2; i++ {
				res, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{
					SourceAccountID: src.AccountID,
					DestinationKey:  tt.key,
					RawAmount:       tt.amount,
				})
				s.Nil(res)
				s.ErrorIs(err, tt.wantErr)
			}
			s.Equal("10.00", s.balance(src.AccountID))
			s.Equal("5.00", s.balance(dst.AccountID))
			s.Len(s.entries(src.AccountID), 1)
			s.Len(s.entries(dst.AccountID), 1)
		})
	}
	s.publisher.AssertNotCalled(s.T(), "PublishTransferCompleted", mock.Anything, mock.Anything)
}

func (s *TransferServiceTestSuite) TestTransfer_UnknownSource() {
	s.open("1002003002", "", "B", "5.00")

	_, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: "ghost", DestinationKey: "1002003002", RawAmount: "1"})
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.NotErrorIs(err, apperrors.ErrRecipientNotFound)
}

func (s *TransferServiceTestSuite) TestTransfer_RecipientBalanceCapacity() {
	src := s.open("1002003001", "", "A", "10.00")
	s.open("1002003002", "", "B", "9999999999.99")

	_, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: src.AccountID, DestinationKey: "1002003002", RawAmount: "1"})
	s.ErrorIs(err, apperrors.ErrInvalidAmount)
	s.Equal("10.00", s.balance(src.AccountID))
}

func (s *TransferServiceTestSuite) TestTransfer_PublishFailureDoesNotUndoCommit() {
	src := s.open("1002003001", "", "A", "10.00")
	s.open("1002003002", "", "B", "0.00")
	s.publisher.On("PublishTransferCompleted", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	res, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: src.AccountID, DestinationKey: "1002003002", RawAmount: "4"})
	s.Require().NoError(err)
	s.NotNil(res)
	s.Equal("6.00", s.balance(src.AccountID))
}

func (s *TransferServiceTestSuite) TestTransfer_ConcurrentDebitsNeverOverdraw() {
	const n = 40
	src := s.open("1002003000", "", "Source", "400.00")
	destinations := make([]string, n+10)
	for i := range destinations {
		number := fmt.Sprintf("10020031%02d", i)
		s.open(number, "", "Dest", "0.00")
		destinations[i] = number
	}
	s.expectPublish()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, insufficient := 0, 0
	for _, number := range destinations {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: src.AccountID, DestinationKey: key, RawAmount: "10.00"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrInsufficientFunds):
				insufficient++
			}
		}(number)
	}
	wg.Wait()

	s.Equal(n, succeeded)
	s.Equal(10, insufficient)
	s.Equal("0.00", s.balance(src.AccountID))
	s.NoError(s.ledger.VerifyBalance(s.ctx, src.AccountID))

	total := decimal.Zero
	for _, number := range destinations {
		acc, err := s.accounts.ResolveAccount(s.ctx, number)
		s.Require().NoError(err)
		total = total.Add(acc.Balance)
		s.NoError(s.ledger.VerifyBalance(s.ctx, acc.AccountID))
	}
	s.Equal("400.00", domain.FormatAmount(total))
}

func (s *TransferServiceTestSuite) TestTransfer_OpposingTransfersConserveMoney() {
	a := s.open("1002003001", "", "A", "100.00")
	b := s.open("1002003002", "", "B", "100.00")
	s.expectPublish()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := domain.TransferRequest{SourceAccountID: a.AccountID, DestinationKey: "1002003002", RawAmount: "1.25"}
			if i%2 == 1 {
				req = domain.TransferRequest{SourceAccountID: b.AccountID, DestinationKey: "1002003001", RawAmount: "0.75"}
			}
			_, err := s.transfers.Transfer(s.ctx, req)
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	s.Equal("75.00", s.balance(a.AccountID))
	s.Equal("125.00", s.balance(b.AccountID))
	s.Len(s.entries(a.AccountID), 101)
	s.NoError(s.ledger.VerifyBalance(s.ctx, a.AccountID))
	s.NoError(s.ledger.VerifyBalance(s.ctx, b.AccountID))
}

// transferBeforeList commits a transfer each time the entry history is listed.
type transferBeforeList struct {
	portsrepo.LedgerReader
	transfer func()
}

func (r transferBeforeList) ListEntries(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	r.transfer()
	return r.LedgerReader.ListEntries(ctx, accountID)
}

func (s *TransferServiceTestSuite) TestVerifyBalance_TransferCommittedDuringVerification() {
	a := s.open("1002003001", "", "A", "100.00")
	s.open("1002003002", "", "B", "0.00")
	s.expectPublish()

	ledger := services.NewLedgerService(transferBeforeList{
		LedgerReader: s.repos.LedgerRepo,
		transfer: func() {
			_, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: a.AccountID, DestinationKey: "1002003002", RawAmount: "40.00"})
			s.Require().NoError(err)
		},
	})

	s.NoError(ledger.VerifyBalance(s.ctx, a.AccountID))
}

func (s *TransferServiceTestSuite) TestVerifyBalance_ConcurrentWithTransfers() {
	a := s.open("1002003001", "", "A", "100.00")
	b := s.open("1002003002", "", "B", "100.00")
	s.expectPublish()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			req := domain.TransferRequest{SourceAccountID: a.AccountID, DestinationKey: "1002003002", RawAmount: "1.00"}
			if i%2 == 1 {
				req = domain.TransferRequest{SourceAccountID: b.AccountID, DestinationKey: "1002003001", RawAmount: "1.00"}
			}
			_, err := s.transfers.Transfer(s.ctx, req)
			s.NoError(err)
		}
		close(done)
	}()

	for {
		s.Require().NoError(s.ledger.VerifyBalance(s.ctx, a.AccountID))
		s.Require().NoError(s.ledger.VerifyBalance(s.ctx, b.AccountID))
		select {
		case <-done:
			wg.Wait()
			s.Equal("100.00", s.balance(a.AccountID))
			return
		default:
		}
	}
}

func (s *TransferServiceTestSuite) TestTransfer_ManySmallTransfersStayExact() {
	a := s.open("1002003001", "", "A", "1.00")
	b := s.open("1002003002", "", "B", "0.00")
	s.expectPublish()

	for i := 0; i < 10; i++ {
		_, err := s.transfers.Transfer(s.ctx, domain.TransferRequest{SourceAccountID: a.AccountID, DestinationKey: "1002003002", RawAmount: "0.1"})
		s.Require().NoError(err)
	}
	s.Equal("0.00", s.balance(a.AccountID))
	s.Equal("1.00", s.balance(b.AccountID))
}

func TestTransfer_StorageErrorsPassThrough(t *testing.T) {
	for _, storageErr := range []error{apperrors.ErrStorageConflict, apperrors.ErrStorageUnavailable} {
		uow := new(MockTransferUnitOfWork)
		publisher := new(MockPublisher)
		uow.On("RunInTransferUnit", mock.Anything).Return(fmt.Errorf("wrapped: %w", storageErr)).Once()
		svc := services.NewTransferService(uow, services.WithPublisher(publisher))

		res, err := svc.Transfer(context.Background(), domain.TransferRequest{SourceAccountID: "acc-1", DestinationKey: "1002003002", RawAmount: "1"})

		if res != nil || !errors.Is(err, storageErr) {
			t.Fatalf("expected %v, got result %v and error %v", storageErr, res, err)
		}
		publisher.AssertNotCalled(t, "PublishTransferCompleted", mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
	}
}

func TestTransfer_AmountCheckedBeforeStorage(t *testing.T) {
	uow := new(MockTransferUnitOfWork)
	svc := services.NewTransferService(uow)

	_, err := svc.Transfer(context.Background(), domain.TransferRequest{SourceAccountID: "acc-1", DestinationKey: "1002003002", RawAmount: "-1"})
	if !errors.Is(err, apperrors.ErrNonPositiveAmount) {
		t.Fatalf("expected non-positive amount, got %v", err)
	}
	uow.AssertNotCalled(t, "RunInTransferUnit", mock.Anything)
}
