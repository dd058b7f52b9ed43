package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/core/services"
)

type RecalcServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.RecalcSvcFacade
}

func (suite *RecalcServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewRecalcService(suite.mockAccountRepo, suite.mockLedgerRepo)
}

func cleanResult(accountID string) domain.AccountRecalcResult {
	balance := decimal.NewFromInt(500)
	return domain.AccountRecalcResult{
		AccountID:   accountID,
		AccountCode: "1000",
		OldBalance:  balance,
		NewBalance:  balance,
		RowsChecked: 12,
	}
}

func (suite *RecalcServiceTestSuite) TestRecalculate_SingleCleanAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1000"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("RecalculateAccount", ctx, accountID).Return(cleanResult(accountID), nil).Once()

	summary, err := suite.service.Recalculate(ctx, &accountID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.AccountsProcessed)
	suite.Equal(0, summary.DiscrepanciesFound)
	suite.Equal(0, summary.AccountsFixed)
	suite.Require().Len(summary.Results, 1)
	suite.False(summary.Results[0].Fixed)
}

func (suite *RecalcServiceTestSuite) TestRecalculate_UnknownAccountFailsFast() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Recalculate(ctx, &accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecalculateAccount", ctx, accountID)
}

func (suite *RecalcServiceTestSuite) TestRecalculate_AllAccountsReportsDiscrepancies() {
	ctx := context.Background()
	cleanID := uuid.NewString()
	driftedID := uuid.NewString()

	drifted := domain.AccountRecalcResult{
		AccountID:   driftedID,
		AccountCode: "2000",
		OldBalance:  decimal.NewFromInt(310),
		NewBalance:  decimal.NewFromInt(300),
		RowsChecked: 8,
		RowsFixed:   3,
		Fixed:       true,
	}

	suite.mockAccountRepo.On("ListAccountIDs", ctx).Return([]string{cleanID, driftedID}, nil).Once()
	suite.mockLedgerRepo.On("RecalculateAccount", ctx, cleanID).Return(cleanResult(cleanID), nil).Once()
	suite.mockLedgerRepo.On("RecalculateAccount", ctx, driftedID).Return(drifted, nil).Once()

	summary, err := suite.service.Recalculate(ctx, nil)

	suite.Require().NoError(err)
	suite.Equal(2, summary.AccountsProcessed)
	suite.Equal(1, summary.DiscrepanciesFound)
	suite.Equal(1, summary.AccountsFixed)
	suite.True(summary.Results[1].Discrepancy().Equal(decimal.NewFromInt(-10)))
}

func (suite *RecalcServiceTestSuite) TestRecalculate_SecondRunIsClean() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1000"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Twice()
	suite.mockLedgerRepo.On("RecalculateAccount", ctx, accountID).Return(cleanResult(accountID), nil).Twice()

	first, err := suite.service.Recalculate(ctx, &accountID)
	suite.Require().NoError(err)
	second, err := suite.service.Recalculate(ctx, &accountID)
	suite.Require().NoError(err)

	suite.Equal(first.DiscrepanciesFound, second.DiscrepanciesFound)
	suite.Equal(0, second.AccountsFixed)
}

func (suite *RecalcServiceTestSuite) TestRecalculate_StorageFailureReturnsPartialSummary() {
	ctx := context.Background()
	firstID := uuid.NewString()
	secondID := uuid.NewString()
	thirdID := uuid.NewString()
	storageErr := errors.New("connection reset")

	suite.mockAccountRepo.On("ListAccountIDs", ctx).Return([]string{firstID, secondID, thirdID}, nil).Once()
	suite.mockLedgerRepo.On("RecalculateAccount", ctx, firstID).Return(cleanResult(firstID), nil).Once()
	suite.mockLedgerRepo.On("RecalculateAccount", ctx, secondID).Return(domain.AccountRecalcResult{}, storageErr).Once()

	summary, err := suite.service.Recalculate(ctx, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, storageErr)
	suite.Require().NotNil(summary)
	suite.Equal(1, summary.AccountsProcessed)
	suite.Require().Len(summary.Results, 1)
	suite.Equal(firstID, summary.Results[0].AccountID)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecalculateAccount", ctx, thirdID)
}

func TestRecalcServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecalcServiceTestSuite))
}
