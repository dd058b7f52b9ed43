package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portsrepo "github.com/verdanterp/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/platform/logging"
	"github.com/verdanterp/ledger_core/internal/utils/accounting"
)

const minRejectionReasonLen = 10

// workflowService drives journal entries through the approval lifecycle.
// Each transition is a compare-and-set on the stored status; a stale read
// surfaces as apperrors.ErrConcurrencyConflict.
type workflowService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountSvc  portssvc.AccountRegistry
}

// NewWorkflowService creates the approval workflow engine.
func NewWorkflowService(
	journalRepo portsrepo.JournalRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountSvc portssvc.AccountRegistry,
) portssvc.WorkflowSvcFacade {
	return &workflowService{
		journalRepo: journalRepo,
		ledgerRepo:  ledgerRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// fetchActiveAccounts loads every account referenced by the entry's lines and
// verifies each exists and is active. Failures surface as ErrInvalidReference
// because they are reference problems, not entry-shape problems.
func (s *workflowService) fetchActiveAccounts(ctx context.Context, entry *domain.JournalEntry) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(entry.Lines))
	seen := make(map[string]struct{}, len(entry.Lines))
	for _, line := range entry.Lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for entry %s: %w", entry.EntryID, err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: account %s does not exist", apperrors.ErrInvalidReference, id)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %s (%s) is inactive", apperrors.ErrInvalidReference, account.Code, id)
		}
	}
	return accounts, nil
}

// Submit moves a DRAFT entry to PENDING_APPROVAL. The balance invariant and
// account references are checked here, at the door of the workflow.
func (s *workflowService) Submit(ctx context.Context, entryID string, actorUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	next, err := domain.NextStatus(entry.Status, domain.ActionSubmit)
	if err != nil {
		return nil, err
	}

	entry.RecomputeTotals()
	if err := accounting.ValidateBalance(entry); err != nil {
		return nil, err
	}
	if _, err := s.fetchActiveAccounts(ctx, entry); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	update := portsrepo.StatusUpdate{UpdatedBy: actorUserID, UpdatedAt: now}
	if err := s.journalRepo.TransitionStatus(ctx, entryID, entry.Status, next, update); err != nil {
		return nil, err
	}

	entry.Status = next
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorUserID
	logger.Info("Journal entry submitted", slog.String("entry_id", entryID), slog.String("entry_no", entry.EntryNo))
	return entry, nil
}

// Approve moves a PENDING_APPROVAL entry to APPROVED, recording the approver.
func (s *workflowService) Approve(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	next, err := domain.NextStatus(entry.Status, domain.ActionApprove)
	if err != nil {
		return nil, err
	}

	// Segregation of duties: the creator may never approve their own entry.
	if approverUserID == entry.CreatedBy {
		return nil, fmt.Errorf("%w: entry %s cannot be approved by its creator", apperrors.ErrForbidden, entry.EntryNo)
	}

	now := time.Now().UTC()
	update := portsrepo.StatusUpdate{
		ApprovedBy: approverUserID,
		ApprovedAt: &now,
		UpdatedBy:  approverUserID,
		UpdatedAt:  now,
	}
	if err := s.journalRepo.TransitionStatus(ctx, entryID, entry.Status, next, update); err != nil {
		return nil, err
	}

	entry.Status = next
	entry.ApprovedBy = approverUserID
	entry.ApprovedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = approverUserID
	logger.Info("Journal entry approved", slog.String("entry_id", entryID), slog.String("approved_by", approverUserID))
	return entry, nil
}

// Reject moves a PENDING_APPROVAL entry to REJECTED. A rejected entry is
// terminal; it can only be superseded by a new draft.
func (s *workflowService) Reject(ctx context.Context, entryID string, actorUserID string, reason string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	reason = strings.TrimSpace(reason)
	if len(reason) < minRejectionReasonLen {
		return nil, fmt.Errorf("%w: rejection reason must be at least %d characters", apperrors.ErrValidation, minRejectionReasonLen)
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	next, err := domain.NextStatus(entry.Status, domain.ActionReject)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	update := portsrepo.StatusUpdate{
		RejectionReason: reason,
		UpdatedBy:       actorUserID,
		UpdatedAt:       now,
	}
	if err := s.journalRepo.TransitionStatus(ctx, entryID, entry.Status, next, update); err != nil {
		return nil, err
	}

	entry.Status = next
	entry.RejectionReason = reason
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorUserID
	logger.Info("Journal entry rejected", slog.String("entry_id", entryID), slog.String("rejected_by", actorUserID))
	return entry, nil
}

// Post moves an APPROVED entry to POSTED and materializes its lines into the
// ledger as one atomic unit. The balance invariant is re-checked here, not
// only at submit, because accounts can be deactivated while the entry waits
// in the approval queue; in that case the post aborts with
// ErrInvalidReference and the entry stays APPROVED for correction via a
// reversing entry.
func (s *workflowService) Post(ctx context.Context, entryID string, actorUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	next, err := domain.NextStatus(entry.Status, domain.ActionPost)
	if err != nil {
		return nil, err
	}

	entry.RecomputeTotals()
	if err := accounting.ValidateBalance(entry); err != nil {
		return nil, err
	}

	accounts, err := s.fetchActiveAccounts(ctx, entry)
	if err != nil {
		return nil, err
	}
	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		accountTypes[id] = account.AccountType
	}

	now := time.Now().UTC()
	update := portsrepo.StatusUpdate{UpdatedBy: actorUserID, UpdatedAt: now}

	// The ledger repository performs the whole unit inside one transaction:
	// per-account locks, sequence assignment, running balances, row inserts
	// and the APPROVED -> POSTED flip.
	if err := s.ledgerRepo.AppendForEntry(ctx, *entry, accountTypes, update); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Status = next
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorUserID
	logger.Info("Journal entry posted",
		slog.String("entry_id", entryID),
		slog.String("entry_no", entry.EntryNo),
		slog.Int("lines", len(entry.Lines)))
	return entry, nil
}
