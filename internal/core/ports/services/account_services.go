package services

import (
	"context"

	"github.com/verdanterp/ledger_core/internal/core/domain"
	"github.com/verdanterp/ledger_core/internal/dto"
)

// AccountRegistry is the read-only view of the chart of accounts that the
// ledger components consume. The ledger never writes through this interface.
type AccountRegistry interface {
	// GetAccountByID retrieves an account, returning apperrors.ErrNotFound when absent.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// IsActive reports whether the account exists and accepts postings.
	IsActive(ctx context.Context, accountID string) (bool, error)
}

// AccountSvcFacade adds registry management on top of the read-only view.
type AccountSvcFacade interface {
	AccountRegistry

	// CreateAccount provisions a new account in the registry.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// GetAccountLedger retrieves a page of the account's posted ledger rows in
	// sequence order, with a token for the next page.
	GetAccountLedger(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// DeactivateAccount marks an account inactive; subsequent postings that
	// reference it fail with apperrors.ErrInvalidReference.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}
