package services

import (
	"context"

	"github.com/verdanterp/ledger_core/internal/core/domain"
	"github.com/verdanterp/ledger_core/internal/dto"
)

// JournalSvcFacade defines the journal entry store operations.
type JournalSvcFacade interface {
	// CreateEntry validates and persists a new entry in DRAFT.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a filtered, paginated list of entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// UpdateDraftEntry replaces the mutable fields of a DRAFT entry.
	// Entries that left DRAFT fail with apperrors.ErrInvalidState.
	UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a DRAFT or REJECTED entry.
	DeleteEntry(ctx context.Context, entryID string, userID string) error

	// ReverseEntry drafts a mirror-image adjustment entry for a POSTED entry.
	// The reversal walks the same approval workflow as any other entry.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
}
