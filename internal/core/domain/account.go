package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsDebitPositive reports whether the account type follows the debit-positive
// balance convention (ASSET/EXPENSE) as opposed to credit-positive
// (LIABILITY/EQUITY/INCOME).
func (t AccountType) IsDebitPositive() bool {
	return t == Asset || t == Expense
}

// IsValid reports whether the account type is one of the five known types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// Account represents one account in the chart of accounts.
// The registry owns this data; ledger components reference accounts by ID only.
type Account struct {
	AccountID   string      `json:"accountID"`   // Primary Key (UUID)
	Code        string      `json:"code"`        // Human code, unique and immutable
	Name        string      `json:"name"`        // User-defined name
	AccountType AccountType `json:"accountType"` // ASSET, LIABILITY, etc.
	Description string      `json:"description"` // Nullable user description
	IsActive    bool        `json:"isActive"`    // Inactive accounts reject new postings
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Cached running balance; the ledger log is authoritative
}
