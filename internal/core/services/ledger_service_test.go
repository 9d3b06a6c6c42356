package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/simple_bank_app/internal/apperrors"
	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	"github.com/SscSPs/simple_bank_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	ledgerRepo *MockLedgerRepository
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ledgerRepo = new(MockLedgerRepository)
}

func (s *LedgerServiceTestSuite) TearDownTest() {
	s.ledgerRepo.AssertExpectations(s.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func entry(id string, direction domain.EntryDirection, amount, after string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      id,
		AccountID:    "acc-1",
		Direction:    direction,
		Amount:       decimal.RequireFromString(amount),
		BalanceAfter: decimal.RequireFromString(after),
	}
}

func (s *LedgerServiceTestSuite) TestListRecentEntries_Limits() {
	svc := services.NewLedgerService(s.ledgerRepo)
	s.ledgerRepo.On("ListRecentEntries", s.ctx, "acc-1", services.DefaultRecentEntries).Return(nil, nil).Once()
	s.ledgerRepo.On("ListRecentEntries", s.ctx, "acc-1", services.MaxRecentEntries).Return([]domain.LedgerEntry{}, nil).Once()
	s.ledgerRepo.On("ListRecentEntries", s.ctx, "acc-1", 7).Return([]domain.LedgerEntry{}, nil).Once()

	entries, err := svc.ListRecentEntries(s.ctx, "acc-1", 0)
	s.Require().NoError(err)
	s.NotNil(entries)
	s.Empty(entries)

	_, err = svc.ListRecentEntries(s.ctx, "acc-1", 1000)
	s.Require().NoError(err)

	_, err = svc.ListRecentEntries(s.ctx, "acc-1", 7)
	s.Require().NoError(err)
}

func (s *LedgerServiceTestSuite) TestListEntries_StorageError() {
	svc := services.NewLedgerService(s.ledgerRepo)
	s.ledgerRepo.On("ListEntries", s.ctx, "acc-1").Return(nil, apperrors.ErrStorageUnavailable).Once()

	_, err := svc.ListEntries(s.ctx, "acc-1")
	s.ErrorIs(err, apperrors.ErrStorageUnavailable)
}

func (s *LedgerServiceTestSuite) TestVerifyBalance_Consistent() {
	svc := services.NewLedgerService(s.ledgerRepo)
	s.ledgerRepo.On("BalanceWithEntries", s.ctx, "acc-1").Return(decimal.RequireFromString("60.00"), []domain.LedgerEntry{
		entry("e2", domain.Debit, "40.00", "60.00"),
		entry("e1", domain.Credit, "100.00", "100.00"),
	}, nil).Once()

	s.NoError(svc.VerifyBalance(s.ctx, "acc-1"))
}

func (s *LedgerServiceTestSuite) TestVerifyBalance_StoredBalanceDrifted() {
	svc := services.NewLedgerService(s.ledgerRepo)
	s.ledgerRepo.On("BalanceWithEntries", s.ctx, "acc-1").Return(decimal.RequireFromString("61.00"), []domain.LedgerEntry{
		entry("e2", domain.Debit, "40.00", "60.00"),
		entry("e1", domain.Credit, "100.00", "100.00"),
	}, nil).Once()

	s.ErrorIs(svc.VerifyBalance(s.ctx, "acc-1"), apperrors.ErrLedgerMismatch)
}

func (s *LedgerServiceTestSuite) TestVerifyBalance_BrokenRunningBalance() {
	svc := services.NewLedgerService(s.ledgerRepo)
	s.ledgerRepo.On("BalanceWithEntries", s.ctx, "acc-1").Return(decimal.RequireFromString("60.00"), []domain.LedgerEntry{
		entry("e2", domain.Debit, "40.00", "60.00"),
		entry("e1", domain.Credit, "100.00", "90.00"),
	}, nil).Once()

	s.ErrorIs(svc.VerifyBalance(s.ctx, "acc-1"), apperrors.ErrLedgerMismatch)
}

func (s *LedgerServiceTestSuite) TestVerifyBalance_UnknownAccount() {
	svc := services.NewLedgerService(s.ledgerRepo)
	s.ledgerRepo.On("BalanceWithEntries", s.ctx, "ghost").Return(decimal.Zero, nil, apperrors.ErrNotFound).Once()

	s.ErrorIs(svc.VerifyBalance(s.ctx, "ghost"), apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestVerifyBalance_NeverReadsListEntries() {
	svc := services.NewLedgerService(s.ledgerRepo)
	s.ledgerRepo.On("BalanceWithEntries", s.ctx, "acc-1").Return(decimal.RequireFromString("100.00"), []domain.LedgerEntry{
		entry("e1", domain.Credit, "100.00", "100.00"),
	}, nil).Once()

	s.NoError(svc.VerifyBalance(s.ctx, "acc-1"))
	s.ledgerRepo.AssertNotCalled(s.T(), "ListEntries", s.ctx, "acc-1")
}
