package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountRecalcResult reports the outcome of recomputing one account's ledger
// log from its posted journal lines.
type AccountRecalcResult struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	OldBalance  decimal.Decimal `json:"oldBalance"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	RowsChecked int             `json:"rowsChecked"`
	RowsFixed   int             `json:"rowsFixed"`
	Fixed       bool            `json:"fixed"` // True when any stored value was overwritten
}

// Discrepancy returns the signed difference between the recomputed and the
// previously stored closing balance.
func (r AccountRecalcResult) Discrepancy() decimal.Decimal {
	return r.NewBalance.Sub(r.OldBalance)
}

// RecalcSummary is the result of a recalculation run across one or more accounts.
type RecalcSummary struct {
	StartedAt          time.Time             `json:"startedAt"`
	FinishedAt         time.Time             `json:"finishedAt"`
	AccountsProcessed  int                   `json:"accountsProcessed"`
	DiscrepanciesFound int                   `json:"discrepanciesFound"`
	AccountsFixed      int                   `json:"accountsFixed"`
	Results            []AccountRecalcResult `json:"results"`
}
