package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/verdanterp/ledger_core/internal/core/domain"
)

// CreateAccountRequest defines the payload for provisioning a registry account.
type CreateAccountRequest struct {
	Code        string             `json:"code" validate:"required,max=32"`
	Name        string             `json:"name" validate:"required,max=255"`
	AccountType domain.AccountType `json:"accountType" validate:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Description string             `json:"description" validate:"max=1024"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType string          `json:"accountType"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		Description: a.Description,
		IsActive:    a.IsActive,
		Balance:     a.Balance,
		CreatedAt:   a.CreatedAt,
	}
}
