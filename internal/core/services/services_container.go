package services

import (
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, extra ...ServiceOption) *portssvc.ServiceContainer {
	opts := []ServiceOption{
		WithLedgerLocation(cfg.LedgerLocation),
		WithMaxPostAttempts(cfg.PostingMaxAttempts),
	}
	opts = append(opts, extra...)

	container := &portssvc.ServiceContainer{}

	// The chart and the period guard are leaves; the poster and the book read through them.
	container.Account = NewChartOfAccounts(repos.AccountRepo, opts...)
	container.Period = NewClosingPeriodGuard(repos.PeriodRepo, repos.UnitOfWork, opts...)
	container.Journal = NewJournalPoster(repos.JournalRepo, repos.UnitOfWork, container.Account, container.Period, opts...)
	container.Ledger = NewLedgerBook(repos.LedgerRepo, repos.AccountRepo, container.Account, opts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*chartOfAccounts)(nil)
	_ portssvc.PeriodSvcFacade  = (*closingPeriodGuard)(nil)
	_ portssvc.JournalSvcFacade = (*journalPoster)(nil)
	_ portssvc.LedgerSvc        = (*ledgerBook)(nil)
)
