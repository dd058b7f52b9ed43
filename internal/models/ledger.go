package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the database representation of one row in an account's
// posting log.
type LedgerEntry struct {
	LedgerEntryID  string          `db:"ledger_entry_id"`
	AccountID      string          `db:"account_id"`
	EntryID        string          `db:"entry_id"`
	LineID         string          `db:"line_id"`
	EntryDate      time.Time       `db:"entry_date"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	SequenceNo     int64           `db:"sequence_no"`
	CreatedAt      time.Time       `db:"created_at"`
}
