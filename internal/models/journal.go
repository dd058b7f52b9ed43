package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus at the persistence layer.
type EntryStatus string

// EntryType mirrors domain.EntryType at the persistence layer.
type EntryType string

// JournalEntry is the database representation of a journal entry header.
type JournalEntry struct {
	EntryID         string          `db:"entry_id"`
	EntryNo         string          `db:"entry_no"`
	EntryDate       time.Time       `db:"entry_date"`
	EntryType       EntryType       `db:"entry_type"`
	SourceType      *string         `db:"source_type"`
	SourceNumber    *string         `db:"source_number"`
	Narration       string          `db:"narration"`
	Status          EntryStatus     `db:"status"`
	TotalDebit      decimal.Decimal `db:"total_debit"`
	TotalCredit     decimal.Decimal `db:"total_credit"`
	ApprovedBy      *string         `db:"approved_by"`
	ApprovedAt      *time.Time      `db:"approved_at"`
	RejectionReason *string         `db:"rejection_reason"`
	AuditFields
}

// JournalLine is the database representation of one entry line.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit_amount"`
	Credit      decimal.Decimal `db:"credit_amount"`
	Position    int             `db:"position"`
	AuditFields
}
