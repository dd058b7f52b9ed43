package domain

import "github.com/shopspring/decimal"

// JournalLine represents a single debit or credit movement against one account
// within a journal entry. A line carries exactly one of Debit/Credit non-zero;
// it is owned by its entry and cannot outlive it.
type JournalLine struct {
	LineID      string          `json:"lineID"`  // Primary Key (UUID)
	EntryID     string          `json:"entryID"` // FK -> JournalEntry.EntryID (Not Null)
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"` // Nullable
	Debit       decimal.Decimal `json:"debit"`       // Non-negative
	Credit      decimal.Decimal `json:"credit"`      // Non-negative
	Position    int             `json:"position"`    // Order within the entry
	AuditFields
}

// IsDebit reports whether the line is a debit movement.
func (l *JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the magnitude of the line's single movement.
func (l *JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
