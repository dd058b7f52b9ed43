package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/verdanterp/ledger_core/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository around a shared
// connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(pool),
		JournalRepo: newPgxJournalRepository(pool),
		LedgerRepo:  newPgxLedgerRepository(pool),
	}
}
