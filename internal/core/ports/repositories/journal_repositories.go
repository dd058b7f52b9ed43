package repositories

import (
	"context"
	"time"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// EntryFilter narrows a journal entry listing. Nil fields are ignored.
type EntryFilter struct {
	Status     *domain.EntryStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	SourceType *string
	Limit      int
	NextToken  *string
}

// StatusUpdate carries the audit payload written alongside a workflow transition.
type StatusUpdate struct {
	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string
	UpdatedBy       string
	UpdatedAt       time.Time
}

// JournalReader defines read operations for journal entry data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a filtered, paginated list of entries (without lines)
	// using token-based pagination. It returns the entries, a token for the next
	// page, and an error.
	ListEntries(ctx context.Context, filter EntryFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entry data
type JournalWriter interface {
	// SaveEntry persists a new draft entry and its lines atomically, assigning
	// the next sequential entry number onto the passed entry.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error

	// UpdateDraftEntry replaces the mutable fields and lines of an entry that is
	// still in DRAFT. It fails with ErrConcurrencyConflict when the entry left
	// DRAFT since it was read.
	UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry) error

	// TransitionStatus atomically moves an entry from one status to another
	// (compare-and-set on the status column). It fails with
	// ErrConcurrencyConflict when the stored status no longer matches from,
	// and ErrNotFound when the entry does not exist.
	TransitionStatus(ctx context.Context, entryID string, from, to domain.EntryStatus, update StatusUpdate) error

	// DeleteEntry removes an entry and its lines, guarded by the expected status.
	DeleteEntry(ctx context.Context, entryID string, from domain.EntryStatus) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
