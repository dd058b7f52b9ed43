package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType at the persistence layer.
type AccountType string

// Account is the database representation of a chart-of-accounts row.
type Account struct {
	AccountID   string      `db:"account_id"`
	Code        string      `db:"code"`
	Name        string      `db:"name"`
	AccountType AccountType `db:"account_type"`
	Description string      `db:"description"`
	IsActive    bool        `db:"is_active"`
	AuditFields
	Balance decimal.Decimal `db:"balance"`
	// NextSequenceNo is the per-account ledger sequence counter, advanced under
	// row lock during posting. It never appears in the domain model.
	NextSequenceNo int64 `db:"next_sequence_no"`
}
