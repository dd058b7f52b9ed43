package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// RecalcResultResponse is one account's reconciliation outcome.
type RecalcResultResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	OldBalance  decimal.Decimal `json:"oldBalance"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
	RowsChecked int             `json:"rowsChecked"`
	RowsFixed   int             `json:"rowsFixed"`
	Fixed       bool            `json:"fixed"`
}

// RecalcSummaryResponse is the reconciliation run summary returned to the operator.
type RecalcSummaryResponse struct {
	StartedAt          time.Time              `json:"startedAt"`
	FinishedAt         time.Time              `json:"finishedAt"`
	AccountsProcessed  int                    `json:"accountsProcessed"`
	DiscrepanciesFound int                    `json:"discrepanciesFound"`
	AccountsFixed      int                    `json:"accountsFixed"`
	Results            []RecalcResultResponse `json:"results"`
}

// ToRecalcSummaryResponse converts a domain.RecalcSummary to its DTO.
func ToRecalcSummaryResponse(s *domain.RecalcSummary) RecalcSummaryResponse {
	results := make([]RecalcResultResponse, len(s.Results))
	for i, r := range s.Results {
		results[i] = RecalcResultResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			OldBalance:  r.OldBalance,
			NewBalance:  r.NewBalance,
			Discrepancy: r.Discrepancy(),
			RowsChecked: r.RowsChecked,
			RowsFixed:   r.RowsFixed,
			Fixed:       r.Fixed,
		}
	}
	return RecalcSummaryResponse{
		StartedAt:          s.StartedAt,
		FinishedAt:         s.FinishedAt,
		AccountsProcessed:  s.AccountsProcessed,
		DiscrepanciesFound: s.DiscrepanciesFound,
		AccountsFixed:      s.AccountsFixed,
		Results:            results,
	}
}
