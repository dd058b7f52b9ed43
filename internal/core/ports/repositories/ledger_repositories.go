package repositories

import (
	"context"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// LedgerReader defines read operations for the per-account posting log
type LedgerReader interface {
	// ListLedgerEntries retrieves a page of an account's ledger rows ordered by
	// sequence number using token-based pagination.
	ListLedgerEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines the posting and recalculation operations on the ledger log
type LedgerWriter interface {
	// AppendForEntry materializes every line of an approved journal entry into
	// the ledger as one all-or-nothing unit: it locks the touched accounts,
	// assigns gap-free per-account sequence numbers, computes running balances,
	// inserts the rows, updates the cached account balances, and flips the
	// entry from APPROVED to POSTED. Any failure rolls the whole unit back.
	AppendForEntry(ctx context.Context, entry domain.JournalEntry, accountTypes map[string]domain.AccountType, update StatusUpdate) error

	// RecalculateAccount rebuilds one account's ledger rows from the journal
	// lines of its posted entries, repairing drifted amounts and running
	// balances, re-materializing missing rows, removing orphaned ones, and
	// fixing the cached account balance. Safe to call at any time and
	// idempotent: a second run with no new postings reports no drift.
	RecalculateAccount(ctx context.Context, accountID string) (domain.AccountRecalcResult, error)
}

// LedgerRepositoryFacade combines all ledger projection repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
