package services

import (
	portsrepo "github.com/verdanterp/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/verdanterp/ledger_core/internal/core/ports/services"
	"github.com/verdanterp/ledger_core/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.LedgerRepo)
	container.Journal = NewJournalService(repos.JournalRepo, cfg.DefaultPageSize)
	container.Workflow = NewWorkflowService(repos.JournalRepo, repos.LedgerRepo, container.Account)
	container.Recalc = NewRecalcService(repos.AccountRepo, repos.LedgerRepo)

	return container
}
