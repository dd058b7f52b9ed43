package services

import (
	"context"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// RecalcSvcFacade is the operator-invoked reconciliation trigger.
type RecalcSvcFacade interface {
	// Recalculate rebuilds the ledger projection for one account (accountID
	// non-nil) or every account, and reports per-account old balance, new
	// balance and whether a fix was applied. Discrepancies are always included
	// in the summary, never silently repaired.
	Recalculate(ctx context.Context, accountID *string) (*domain.RecalcSummary, error)
}
