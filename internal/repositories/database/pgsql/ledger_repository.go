package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	"github.com/SscSPs/bukubesar/internal/models"
	"github.com/SscSPs/bukubesar/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository reads lines of posted and reversed journals.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

// dateRange appends the [from, to) bounds on j.journal_date; zero bounds are open.
func dateRange(conds string, args []any, from, to time.Time) (string, []any) {
	if !from.IsZero() {
		args = append(args, from)
		conds += " AND j.journal_date >= $" + strconv.Itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		conds += " AND j.journal_date < $" + strconv.Itoa(len(args))
	}
	return conds, args
}

// ListPostedLines returns an account's lines in ledger order.
func (r *PgxLedgerRepository) ListPostedLines(ctx context.Context, accountID string, from, to time.Time) ([]domain.PostedLine, error) {
	conds, args := dateRange("j.status <> 'DRAFT' AND l.account_id = $1", []any{accountID}, from, to)
	query := `
		SELECT j.journal_id, j.journal_number, j.journal_date, j.description, j.status,
		       l.line_no, l.account_id, l.debit, l.credit, l.description AS line_memo
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE ` + conds + `
		ORDER BY j.journal_date, j.journal_number, j.journal_id, l.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query ledger of account "+accountID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PostedLine])
	if err != nil {
		return nil, mapPgError(err, "failed to scan ledger of account "+accountID)
	}
	out := make([]domain.PostedLine, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainPostedLine(m)
	}
	return out, nil
}

// SumPostedLines totals an account's lines dated before the given date.
func (r *PgxLedgerRepository) SumPostedLines(ctx context.Context, accountID string, before time.Time) (domain.LineTotals, error) {
	conds, args := dateRange("j.status <> 'DRAFT' AND l.account_id = $1", []any{accountID}, time.Time{}, before)
	query := `
		SELECT l.account_id, COALESCE(SUM(l.debit), 0)::BIGINT AS debit, COALESCE(SUM(l.credit), 0)::BIGINT AS credit
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE ` + conds + `
		GROUP BY l.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return domain.LineTotals{}, mapPgError(err, "failed to sum ledger of account "+accountID)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LineTotals])
	if err != nil {
		return domain.LineTotals{}, mapPgError(err, "failed to scan ledger sum of account "+accountID)
	}
	if len(ms) == 0 {
		return domain.LineTotals{}, nil
	}
	return mapping.ToDomainLineTotals(ms[0]), nil
}

// SumPostedLinesByAccount totals lines per account dated in [from, to).
func (r *PgxLedgerRepository) SumPostedLinesByAccount(ctx context.Context, from, to time.Time) (map[string]domain.LineTotals, error) {
	return sumByAccount(ctx, r.Pool, from, to)
}

// ReconciliationSnapshot reads movements, all-time totals and accounts inside
// one repeatable-read transaction.
func (r *PgxLedgerRepository) ReconciliationSnapshot(ctx context.Context, from, to time.Time) (domain.LedgerSnapshot, error) {
	var snap domain.LedgerSnapshot
	err := r.inSnapshot(ctx, func(tx pgx.Tx) error {
		var err error
		if snap.Movements, err = sumByAccount(ctx, tx, from, to); err != nil {
			return err
		}
		if snap.AllTime, err = sumByAccount(ctx, tx, time.Time{}, time.Time{}); err != nil {
			return err
		}
		snap.Accounts, err = listAccounts(ctx, tx, true)
		return err
	})
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}
	return snap, nil
}

func sumByAccount(ctx context.Context, q querier, from, to time.Time) (map[string]domain.LineTotals, error) {
	conds, args := dateRange("j.status <> 'DRAFT'", nil, from, to)
	query := `
		SELECT l.account_id, SUM(l.debit)::BIGINT AS debit, SUM(l.credit)::BIGINT AS credit
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE ` + conds + `
		GROUP BY l.account_id;
	`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to sum ledger by account")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LineTotals])
	if err != nil {
		return nil, mapPgError(err, "failed to scan ledger sums")
	}
	out := make(map[string]domain.LineTotals, len(ms))
	for _, m := range ms {
		out[m.AccountID] = mapping.ToDomainLineTotals(m)
	}
	return out, nil
}
