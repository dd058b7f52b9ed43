package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/verdanterp/ledger_core/internal/core/domain"
	portsrepo "github.com/verdanterp/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/platform/logging"
)

// recalcService rebuilds the ledger projection from the posted entry log.
// It processes accounts one at a time so a run never blocks posting on
// accounts it is not currently holding.
type recalcService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// NewRecalcService creates the reconciliation/recalculation service.
func NewRecalcService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.RecalcSvcFacade {
	return &recalcService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.RecalcSvcFacade = (*recalcService)(nil)

// Recalculate replays the posted ledger rows for one account or every account,
// repairing any drifted running balance and reporting every discrepancy found.
func (s *recalcService) Recalculate(ctx context.Context, accountID *string) (*domain.RecalcSummary, error) {
	logger := logging.FromCtx(ctx)

	var targets []string
	if accountID != nil {
		// Validate the target exists before replaying, so an unknown account
		// fails fast with ErrNotFound instead of an empty summary.
		if _, err := s.accountRepo.FindAccountByID(ctx, *accountID); err != nil {
			return nil, fmt.Errorf("failed to find account %s: %w", *accountID, err)
		}
		targets = []string{*accountID}
	} else {
		ids, err := s.accountRepo.ListAccountIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts for recalculation: %w", err)
		}
		targets = ids
	}

	summary := &domain.RecalcSummary{
		StartedAt: time.Now().UTC(),
		Results:   make([]domain.AccountRecalcResult, 0, len(targets)),
	}

	for _, id := range targets {
		result, err := s.ledgerRepo.RecalculateAccount(ctx, id)
		if err != nil {
			// Storage failure mid-run: return the partial summary with the
			// error so completed repairs are still reported; the run is safe
			// to re-invoke.
			logger.Error("Recalculation failed for account", slog.String("error", err.Error()), slog.String("account_id", id))
			summary.FinishedAt = time.Now().UTC()
			return summary, fmt.Errorf("recalculation failed for account %s: %w", id, err)
		}

		summary.AccountsProcessed++
		summary.Results = append(summary.Results, result)
		if result.RowsFixed > 0 || !result.Discrepancy().IsZero() {
			summary.DiscrepanciesFound++
			logger.Warn("Ledger discrepancy detected",
				slog.String("account_id", id),
				slog.String("old_balance", result.OldBalance.String()),
				slog.String("new_balance", result.NewBalance.String()),
				slog.Int("rows_fixed", result.RowsFixed))
		}
		if result.Fixed {
			summary.AccountsFixed++
		}
	}

	summary.FinishedAt = time.Now().UTC()
	logger.Info("Recalculation run finished",
		slog.Int("accounts_processed", summary.AccountsProcessed),
		slog.Int("discrepancies_found", summary.DiscrepanciesFound),
		slog.Int("accounts_fixed", summary.AccountsFixed))
	return summary, nil
}
