package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/core/services"
	"github.com/verdanterp/ledger_core/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.AccountSvcFacade
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockLedgerRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Cash at bank",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal("1000", account.Code)
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCodeFails() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1000",
		Name:        "Cash at bank",
		AccountType: domain.Asset,
	}
	existing := &domain.Account{AccountID: uuid.NewString(), Code: "1000"}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_BadTypeFailsValidation() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "9000",
		Name:        "Mystery",
		AccountType: domain.AccountType("GOODWILL"),
	}

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestIsActive_MissingAccountIsFalse() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	active, err := suite.service.IsActive(ctx, accountID)

	suite.Require().NoError(err)
	suite.False(active)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), Code: "2000", IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountLedger_Success() {
	ctx := context.Background()
	account := &domain.Account{AccountID: uuid.NewString(), Code: "1000", IsActive: true}
	rows := []domain.LedgerEntry{
		{LedgerEntryID: uuid.NewString(), AccountID: account.AccountID, SequenceNo: 1},
		{LedgerEntryID: uuid.NewString(), AccountID: account.AccountID, SequenceNo: 2},
	}
	token := "2"

	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("ListLedgerEntries", ctx, account.AccountID, 2, (*string)(nil)).Return(rows, &token, nil).Once()

	entries, nextToken, err := suite.service.GetAccountLedger(ctx, account.AccountID, 2, nil)

	suite.Require().NoError(err)
	suite.Len(entries, 2)
	suite.Equal(int64(1), entries[0].SequenceNo)
	suite.Require().NotNil(nextToken)
	suite.Equal("2", *nextToken)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountLedger_UnknownAccountFails() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetAccountLedger(ctx, accountID, 10, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ListLedgerEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
