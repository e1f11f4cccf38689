package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	"github.com/SscSPs/bukubesar/internal/models"
	"github.com/SscSPs/bukubesar/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_year, period_month, status, soft_closed_at, hard_closed_at, approved_by, reopen_count,
	created_at, created_by, last_updated_at, last_updated_by, version`

const periodEventColumns = `event_id, period_year, period_month, action, from_status, to_status, actor, reason, occurred_at`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) *PgxPeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodReader = (*PgxPeriodRepository)(nil)

// FindPeriod returns the stored close state of a period.
func (r *PgxPeriodRepository) FindPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error) {
	return findPeriod(ctx, r.Pool, key)
}

func findPeriod(ctx context.Context, q querier, key domain.PeriodKey) (*domain.ClosingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM closing_periods WHERE period_year = $1 AND period_month = $2;`
	rows, err := q.Query(ctx, query, key.Year, int(key.Month))
	if err != nil {
		return nil, mapPgError(err, "failed to query period "+key.String())
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.ClosingPeriod])
	if err != nil {
		return nil, mapPgError(err, "failed to find period "+key.String())
	}
	p := mapping.ToDomainClosingPeriod(m)
	return &p, nil
}

// ListPeriods returns the stored periods of a year by month.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, year int) ([]domain.ClosingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM closing_periods WHERE period_year = $1 ORDER BY period_month;`
	rows, err := r.Pool.Query(ctx, query, year)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to list periods of %d", year))
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ClosingPeriod])
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to scan periods of %d", year))
	}
	out := make([]domain.ClosingPeriod, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainClosingPeriod(m)
	}
	return out, nil
}

// ListPeriodEvents returns the revision log of a period, oldest first.
func (r *PgxPeriodRepository) ListPeriodEvents(ctx context.Context, key domain.PeriodKey) ([]domain.PeriodEvent, error) {
	query := `
		SELECT ` + periodEventColumns + `
		FROM period_events
		WHERE period_year = $1 AND period_month = $2
		ORDER BY occurred_at, event_id;
	`
	rows, err := r.Pool.Query(ctx, query, key.Year, int(key.Month))
	if err != nil {
		return nil, mapPgError(err, "failed to list events of period "+key.String())
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PeriodEvent])
	if err != nil {
		return nil, mapPgError(err, "failed to scan events of period "+key.String())
	}
	out := make([]domain.PeriodEvent, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainPeriodEvent(m)
	}
	return out, nil
}
