package pgsql

import (
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(dbPool),
		JournalRepo: newPgxJournalRepository(dbPool),
		PeriodRepo:  newPgxPeriodRepository(dbPool),
		LedgerRepo:  newPgxLedgerRepository(dbPool),
		UnitOfWork:  newPgxUnitOfWork(dbPool),
	}
}
