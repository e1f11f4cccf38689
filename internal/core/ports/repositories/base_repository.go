package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// LedgerTx is the set of writes that must commit atomically: posting,
// reversal and period transitions. Locks taken through it are held until the
// unit of work ends.
type LedgerTx interface {
	// LockJournal loads a journal and locks it against concurrent status changes.
	LockJournal(ctx context.Context, journalID string) (*domain.Journal, error)

	// LockPeriod loads a period and locks it against concurrent transitions.
	// A period with no stored record comes back OPEN.
	LockPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error)

	// NextJournalNumber takes the next number of the period's sequence. The
	// number is only consumed if the unit of work commits.
	NextJournalNumber(ctx context.Context, key domain.PeriodKey) (int64, error)

	// InsertJournal stores a journal that is created already posted (a reversal).
	InsertJournal(ctx context.Context, journal domain.Journal) error

	// UpdatePostedJournal writes status, number, posting and reversal fields of a
	// journal together with the resolved account of each line. It fails with
	// apperrors.ErrConflict unless the stored version is journal.Version-1.
	UpdatePostedJournal(ctx context.Context, journal domain.Journal) error

	// LockAccounts loads accounts and holds them against concurrent edits until
	// the unit of work ends. IDs that do not exist are left out of the map.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceChanges adds deltas to the running balances of active accounts.
	// It fails with apperrors.ErrConflict when an account is missing or inactive.
	ApplyBalanceChanges(ctx context.Context, changes map[string]domain.Amount, actor string, at time.Time) error

	// SavePeriod upserts a period record.
	SavePeriod(ctx context.Context, period domain.ClosingPeriod) error

	// AppendPeriodEvent adds an entry to the period revision log.
	AppendPeriodEvent(ctx context.Context, event domain.PeriodEvent) error

	// CountDrafts counts draft journals dated in the period, ignoring the excluded IDs.
	CountDrafts(ctx context.Context, key domain.PeriodKey, excluded []string) (int, error)
}

// UnitOfWork runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
