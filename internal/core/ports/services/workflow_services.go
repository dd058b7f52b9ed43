package services

import (
	"context"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// WorkflowSvcFacade drives journal entries through the approval lifecycle.
// Every method is a single atomic transition; a stale read surfaces as
// apperrors.ErrConcurrencyConflict rather than a silent overwrite.
type WorkflowSvcFacade interface {
	// Submit moves a DRAFT entry to PENDING_APPROVAL after re-validating the
	// balance invariant and the referenced accounts.
	Submit(ctx context.Context, entryID string, actorUserID string) (*domain.JournalEntry, error)

	// Approve moves a PENDING_APPROVAL entry to APPROVED. The approver must
	// differ from the entry's creator (segregation of duties).
	Approve(ctx context.Context, entryID string, approverUserID string) (*domain.JournalEntry, error)

	// Reject moves a PENDING_APPROVAL entry to REJECTED, recording the reason
	// (minimum ten characters).
	Reject(ctx context.Context, entryID string, actorUserID string, reason string) (*domain.JournalEntry, error)

	// Post moves an APPROVED entry to POSTED, materializing its lines into the
	// ledger atomically. Inactive or missing accounts abort the post with
	// apperrors.ErrInvalidReference and the entry stays APPROVED.
	Post(ctx context.Context, entryID string, actorUserID string) (*domain.JournalEntry, error)
}
