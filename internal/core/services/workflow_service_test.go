package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/core/services"
)

type WorkflowServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockLedgerRepo  *MockLedgerRepository
	mockRegistry    *MockAccountRegistry
	service         portssvc.WorkflowSvcFacade
	creatorID       string
	approverID      string
	cashAccount     domain.Account
	salesAccount    domain.Account
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockRegistry = new(MockAccountRegistry)
	suite.service = services.NewWorkflowService(suite.mockJournalRepo, suite.mockLedgerRepo, suite.mockRegistry)

	suite.creatorID = uuid.NewString()
	suite.approverID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.salesAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		AccountType: domain.Income,
		IsActive:    true,
	}
}

func (suite *WorkflowServiceTestSuite) balancedEntry(status domain.EntryStatus) *domain.JournalEntry {
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID: entryID,
		EntryNo: "JE-000042",
		Status:  status,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100), Position: 0},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(100), Position: 1},
		},
		AuditFields: domain.AuditFields{CreatedBy: suite.creatorID},
	}
}

func (suite *WorkflowServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:  suite.cashAccount,
		suite.salesAccount.AccountID: suite.salesAccount,
	}
}

func (suite *WorkflowServiceTestSuite) TestSubmit_Success() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.Draft)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRegistry.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("TransitionStatus", ctx, entry.EntryID, domain.Draft, domain.PendingApproval, mock.AnythingOfType("repositories.StatusUpdate")).Return(nil).Once()

	updated, err := suite.service.Submit(ctx, entry.EntryID, suite.creatorID)

	suite.Require().NoError(err)
	suite.Equal(domain.PendingApproval, updated.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestSubmit_UnbalancedFails() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.Draft)
	entry.Lines[1].Credit = decimal.NewFromInt(90)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Submit(ctx, entry.EntryID, suite.creatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestSubmit_InactiveAccountFails() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.Draft)
	accounts := suite.accountsMap()
	inactive := accounts[suite.salesAccount.AccountID]
	inactive.IsActive = false
	accounts[suite.salesAccount.AccountID] = inactive

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRegistry.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	_, err := suite.service.Submit(ctx, entry.EntryID, suite.creatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidReference)
}

func (suite *WorkflowServiceTestSuite) TestSubmit_FromPostedFails() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.Posted)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Submit(ctx, entry.EntryID, suite.creatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *WorkflowServiceTestSuite) TestApprove_Success() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.PendingApproval)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("TransitionStatus", ctx, entry.EntryID, domain.PendingApproval, domain.Approved, mock.AnythingOfType("repositories.StatusUpdate")).Return(nil).Once()

	updated, err := suite.service.Approve(ctx, entry.EntryID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.Approved, updated.Status)
	suite.Equal(suite.approverID, updated.ApprovedBy)
	suite.Require().NotNil(updated.ApprovedAt)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestApprove_CreatorCannotApprove() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.PendingApproval)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Approve(ctx, entry.EntryID, suite.creatorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestApprove_ConcurrentTransitionSurfacesConflict() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.PendingApproval)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("TransitionStatus", ctx, entry.EntryID, domain.PendingApproval, domain.Approved, mock.AnythingOfType("repositories.StatusUpdate")).
		Return(apperrors.ErrConcurrencyConflict).Once()

	_, err := suite.service.Approve(ctx, entry.EntryID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
}

func (suite *WorkflowServiceTestSuite) TestReject_ShortReasonFails() {
	ctx := context.Background()

	_, err := suite.service.Reject(ctx, uuid.NewString(), suite.approverID, "too short")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindEntryByID", mock.Anything, mock.Anything)
}

func (suite *WorkflowServiceTestSuite) TestReject_Success() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.PendingApproval)
	reason := "Amounts do not match the supplier invoice"

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("TransitionStatus", ctx, entry.EntryID, domain.PendingApproval, domain.Rejected, mock.AnythingOfType("repositories.StatusUpdate")).Return(nil).Once()

	updated, err := suite.service.Reject(ctx, entry.EntryID, suite.approverID, reason)

	suite.Require().NoError(err)
	suite.Equal(domain.Rejected, updated.Status)
	suite.Equal(reason, updated.RejectionReason)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.Approved)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRegistry.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockLedgerRepo.On("AppendForEntry", ctx, mock.AnythingOfType("domain.JournalEntry"),
		map[string]domain.AccountType{
			suite.cashAccount.AccountID:  domain.Asset,
			suite.salesAccount.AccountID: domain.Income,
		},
		mock.AnythingOfType("repositories.StatusUpdate")).Return(nil).Once()

	updated, err := suite.service.Post(ctx, entry.EntryID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, updated.Status)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *WorkflowServiceTestSuite) TestPost_AppendFailureLeavesEntryApproved() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.Approved)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockRegistry.On("GetAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accountsMap(), nil).Once()
	suite.mockLedgerRepo.On("AppendForEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.Anything, mock.AnythingOfType("repositories.StatusUpdate")).
		Return(apperrors.ErrConcurrencyConflict).Once()

	_, err := suite.service.Post(ctx, entry.EntryID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
	suite.Equal(domain.Approved, entry.Status)
}

func (suite *WorkflowServiceTestSuite) TestPost_FromDraftFails() {
	ctx := context.Background()
	entry := suite.balancedEntry(domain.Draft)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Post(ctx, entry.EntryID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "AppendForEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
