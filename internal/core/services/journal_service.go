package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdanterp/ledger_core/internal/apperrors"
	"github.com/verdanterp/ledger_core/internal/core/domain"
	portsrepo "github.com/verdanterp/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/dto"
	"github.com/verdanterp/ledger_core/internal/platform/logging"
	"github.com/verdanterp/ledger_core/internal/utils/accounting"
)

// journalService implements the journal entry store: creation, reads, draft
// edits, deletion and reversal drafting. Workflow transitions live in
// workflowService.
type journalService struct {
	baseService
	journalRepo     portsrepo.JournalRepositoryFacade
	defaultPageSize int
}

// NewJournalService creates a new journal entry store service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, defaultPageSize int) portssvc.JournalSvcFacade {
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	return &journalService{
		baseService:     newBaseService(),
		journalRepo:     journalRepo,
		defaultPageSize: defaultPageSize,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into domain lines with IDs and positions.
// The structural per-line invariant (one account, exactly one side set) is
// checked here; the balance invariant is deliberately deferred to submit so a
// bookkeeper can park an unfinished draft.
func (s *journalService) buildLines(entryID string, reqLines []dto.CreateLineRequest, userID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, lr := range reqLines {
		line := domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lr.AccountID,
			Description: lr.Description,
			Debit:       lr.Debit,
			Credit:      lr.Credit,
			Position:    i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := accounting.ValidateLineShape(line); err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

// CreateEntry validates and persists a new entry in DRAFT.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = domain.Manual
	}
	if !entryType.IsValid() {
		return nil, fmt.Errorf("%w: unknown entry type %s", apperrors.ErrValidation, entryType)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines, err := s.buildLines(entryID, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	var source *domain.SourceRef
	if req.SourceType != "" {
		source = &domain.SourceRef{Type: req.SourceType, Number: req.SourceNumber}
	}

	entry := domain.JournalEntry{
		EntryID:   entryID,
		EntryDate: req.Date,
		EntryType: entryType,
		Source:    source,
		Narration: req.Narration,
		Status:    domain.Draft,
		Lines:     lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	entry.RecomputeTotals()

	// The repository assigns the sequential entry number on insert.
	if err := s.journalRepo.SaveEntry(ctx, &entry); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_no", entry.EntryNo),
		slog.String("entry_type", string(entry.EntryType)))
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries retrieves a filtered, paginated list of entries.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = s.defaultPageSize
	}

	filter := portsrepo.EntryFilter{
		Status:     params.Status,
		DateFrom:   params.DateFrom,
		DateTo:     params.DateTo,
		SourceType: params.SourceType,
		Limit:      limit,
		NextToken:  params.NextToken,
	}
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// UpdateDraftEntry replaces the mutable fields and lines of a DRAFT entry.
func (s *journalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, apperrors.NewInvalidStateError(string(entry.Status), "edit")
	}

	now := time.Now().UTC()
	lines, err := s.buildLines(entry.EntryID, req.Lines, userID, now)
	if err != nil {
		return nil, err
	}

	entry.EntryDate = req.Date
	entry.Narration = req.Narration
	entry.Lines = lines
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.RecomputeTotals()

	if err := s.journalRepo.UpdateDraftEntry(ctx, *entry); err != nil {
		logger.Error("Failed to update draft entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update journal entry %s: %w", entryID, err)
	}

	logger.Info("Draft entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

// DeleteEntry removes a DRAFT or REJECTED entry. Anything further along the
// workflow is part of the audit trail and cannot be deleted.
func (s *journalService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	logger := logging.FromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if !domain.CanDelete(entry.Status) {
		return apperrors.NewInvalidStateError(string(entry.Status), "delete")
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID, entry.Status); err != nil {
		logger.Error("Failed to delete entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID), slog.String("deleted_by", userID))
	return nil
}

// ReverseEntry drafts a mirror-image adjustment for a POSTED entry: every
// debit becomes a credit and vice versa, dated today, with a source reference
// back to the original entry number. The draft then walks the normal workflow,
// so the original log is never edited in place.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := logging.FromCtx(ctx)

	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if original.Status != domain.Posted {
		return nil, apperrors.NewInvalidStateError(string(original.Status), "reverse")
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	lines := make([]domain.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Position:    i,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	reversal := domain.JournalEntry{
		EntryID:   reversalID,
		EntryDate: now,
		EntryType: domain.Adjustment,
		Source:    &domain.SourceRef{Type: "REVERSAL", Number: original.EntryNo},
		Narration: fmt.Sprintf("Reversal of %s: %s", original.EntryNo, original.Narration),
		Status:    domain.Draft,
		Lines:     lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	reversal.RecomputeTotals()

	if err := s.journalRepo.SaveEntry(ctx, &reversal); err != nil {
		logger.Error("Failed to save reversal entry", slog.String("error", err.Error()), slog.String("original_entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	logger.Info("Reversal entry drafted",
		slog.String("entry_id", reversal.EntryID),
		slog.String("entry_no", reversal.EntryNo),
		slog.String("reverses", original.EntryNo))
	return &reversal, nil
}
