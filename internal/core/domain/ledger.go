package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one row of an account's posting log: the projection of a
// posted journal line onto a single account. Rows are append-only; they are
// rewritten only by a full recalculation, never edited individually.
type LedgerEntry struct {
	LedgerEntryID string          `json:"ledgerEntryID"` // Primary Key (UUID)
	AccountID     string          `json:"accountID"`     // FK -> Account.AccountID
	EntryID       string          `json:"entryID"`       // Originating JournalEntry
	LineID        string          `json:"lineID"`        // Originating JournalLine
	EntryDate     time.Time       `json:"entryDate"`     // Business date of the journal entry
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	// RunningBalance is signed per the account type convention
	// (debit-positive for ASSET/EXPENSE, credit-positive otherwise).
	RunningBalance decimal.Decimal `json:"runningBalance"`
	// SequenceNo is the authoritative ordering key within the account's log.
	// It increases with posting order, not business date, so backdated entries
	// land at the end of the log.
	SequenceNo int64     `json:"sequenceNo"`
	CreatedAt  time.Time `json:"createdAt"`
}
