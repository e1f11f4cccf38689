package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	"github.com/SscSPs/bukubesar/internal/models"
	"github.com/SscSPs/bukubesar/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// periodLockClass namespaces the advisory locks taken per accounting period.
const periodLockClass = 0x6C656467 // "ledg"

// PgxUnitOfWork runs ledger writes in one Postgres transaction.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// WithinTx commits when fn returns nil and rolls back otherwise.
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	return u.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &pgxLedgerTx{tx: tx})
	})
}

type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (t *pgxLedgerTx) LockJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	return findJournal(ctx, t.tx, journalID, true)
}

// LockPeriod takes a transaction-scoped advisory lock on the period. A row
// lock is not enough because a never-closed period has no row to lock.
func (t *pgxLedgerTx) LockPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error) {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2);`, periodLockClass, periodLockKey(key)); err != nil {
		return nil, mapPgError(err, "failed to lock period "+key.String())
	}
	p, err := findPeriod(ctx, t.tx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			open := domain.NewOpenPeriod(key)
			return &open, nil
		}
		return nil, err
	}
	return p, nil
}

func periodLockKey(key domain.PeriodKey) int32 {
	return int32(key.Year*100 + int(key.Month))
}

// NextJournalNumber bumps the period counter. The counter row stays locked
// until commit, and a rollback hands the number back.
func (t *pgxLedgerTx) NextJournalNumber(ctx context.Context, key domain.PeriodKey) (int64, error) {
	query := `
		INSERT INTO journal_counters (period_year, period_month, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (period_year, period_month)
		DO UPDATE SET last_number = journal_counters.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := t.tx.QueryRow(ctx, query, key.Year, int(key.Month)).Scan(&number); err != nil {
		return 0, mapPgError(err, "failed to take journal number for "+key.String())
	}
	return number, nil
}

func (t *pgxLedgerTx) InsertJournal(ctx context.Context, journal domain.Journal) error {
	return insertJournal(ctx, t.tx, journal)
}

func (t *pgxLedgerTx) UpdatePostedJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		UPDATE journals
		SET journal_number = $2, status = $3, posted_by = $4, posted_at = $5, reversal_of = $6, reversed_by = $7,
		    last_updated_at = $8, last_updated_by = $9, version = $10
		WHERE journal_id = $1 AND version = $10 - 1;
	`
	cmdTag, err := t.tx.Exec(ctx, query,
		m.JournalID,
		m.JournalNumber,
		m.Status,
		m.PostedBy,
		m.PostedAt,
		m.ReversalOf,
		m.ReversedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapPgError(err, "failed to update journal "+m.JournalID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s changed while posting", apperrors.ErrConflict, m.JournalID)
	}

	batch := &pgx.Batch{}
	for _, l := range mapping.ToModelJournalLines(journal) {
		batch.Queue(`UPDATE journal_lines SET account_id = $3, account_code = $4 WHERE journal_id = $1 AND line_no = $2;`,
			l.JournalID, l.LineNo, l.AccountID, l.AccountCode)
	}
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to resolve lines of journal "+m.JournalID)
	}
	return nil
}

// LockAccounts reads the accounts FOR UPDATE in ID order, so concurrent
// postings lock rows in the same order and account edits wait for commit.
func (t *pgxLedgerTx) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	ids := sortedUnique(accountIDs)
	if len(ids) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	rows, err := t.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, mapPgError(err, "failed to lock accounts")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapPgError(err, "failed to scan locked accounts")
	}
	out := make(map[string]domain.Account, len(ms))
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return out, nil
}

// ApplyBalanceChanges adds deltas to running balances of active accounts, in
// ID order.
func (t *pgxLedgerTx) ApplyBalanceChanges(ctx context.Context, changes map[string]domain.Amount, actor string, at time.Time) error {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND is_active;
	`
	for _, id := range ids {
		cmdTag, err := t.tx.Exec(ctx, query, id, int64(changes[id]), at, actor)
		if err != nil {
			return mapPgError(err, "failed to update balance of account "+id)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s is missing or inactive", apperrors.ErrConflict, id)
		}
	}
	return nil
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (t *pgxLedgerTx) SavePeriod(ctx context.Context, period domain.ClosingPeriod) error {
	m := mapping.ToModelClosingPeriod(period)
	query := `
		INSERT INTO closing_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (period_year, period_month) DO UPDATE
		SET status = EXCLUDED.status,
		    soft_closed_at = EXCLUDED.soft_closed_at,
		    hard_closed_at = EXCLUDED.hard_closed_at,
		    approved_by = EXCLUDED.approved_by,
		    reopen_count = EXCLUDED.reopen_count,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by,
		    version = EXCLUDED.version;
	`
	_, err := t.tx.Exec(ctx, query,
		m.PeriodYear,
		m.PeriodMonth,
		m.Status,
		m.SoftClosedAt,
		m.HardClosedAt,
		m.ApprovedBy,
		m.ReopenCount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapPgError(err, "failed to save period "+period.Key.String())
	}
	return nil
}

func (t *pgxLedgerTx) AppendPeriodEvent(ctx context.Context, event domain.PeriodEvent) error {
	m := mapping.ToModelPeriodEvent(event)
	query := `
		INSERT INTO period_events (` + periodEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := t.tx.Exec(ctx, query,
		m.EventID,
		m.PeriodYear,
		m.PeriodMonth,
		m.Action,
		m.FromStatus,
		m.ToStatus,
		m.Actor,
		m.Reason,
		m.OccurredAt,
	)
	if err != nil {
		return mapPgError(err, "failed to record period event")
	}
	return nil
}

func (t *pgxLedgerTx) CountDrafts(ctx context.Context, key domain.PeriodKey, excluded []string) (int, error) {
	if excluded == nil {
		// A NULL array would make the NOT ANY test unknown for every row.
		excluded = []string{}
	}
	query := `
		SELECT count(*)
		FROM journals
		WHERE status = 'DRAFT' AND period_year = $1 AND period_month = $2 AND NOT (journal_id = ANY($3));
	`
	var n int
	if err := t.tx.QueryRow(ctx, query, key.Year, int(key.Month), excluded).Scan(&n); err != nil {
		return 0, mapPgError(err, "failed to count drafts of "+key.String())
	}
	return n, nil
}
