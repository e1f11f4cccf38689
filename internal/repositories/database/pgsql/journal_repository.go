package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	"github.com/SscSPs/bukubesar/internal/models"
	"github.com/SscSPs/bukubesar/internal/utils/mapping"
	"github.com/SscSPs/bukubesar/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const journalColumns = `journal_id, journal_number, period_year, period_month, journal_date, description,
	source_kind, source_ref, status, posted_by, posted_at, reversal_of, reversed_by,
	created_at, created_by, last_updated_at, last_updated_by, version`

const lineColumns = `journal_id, line_no, account_id, account_code, debit, credit, description`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journals and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// FindJournalByID retrieves a journal with its lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	return findJournal(ctx, r.Pool, journalID, false)
}

// findJournal loads a journal header and lines through q. With forUpdate the
// header row stays locked until q's transaction ends.
func findJournal(ctx context.Context, q querier, journalID string, forUpdate bool) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, journalID)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal "+journalID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Journal])
	if err != nil {
		return nil, mapPgError(err, "failed to find journal "+journalID)
	}
	lines, err := findLines(ctx, q, []string{journalID})
	if err != nil {
		return nil, err
	}
	j := mapping.ToDomainJournal(m, lines[journalID])
	return &j, nil
}

// findLines loads the lines of several journals, grouped by journal ID in line order.
func findLines(ctx context.Context, q querier, journalIDs []string) (map[string][]models.JournalLine, error) {
	out := make(map[string][]models.JournalLine, len(journalIDs))
	if len(journalIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE journal_id = ANY($1) ORDER BY journal_id, line_no;`
	rows, err := q.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal lines")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, mapPgError(err, "failed to scan journal lines")
	}
	for _, m := range ms {
		out[m.JournalID] = append(out[m.JournalID], m)
	}
	return out, nil
}

// ListJournals lists journals newest first: journal_date DESC, created_at DESC,
// journal_id DESC. The token carries the last row of the previous page.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, filter portsrepo.ListJournalsFilter) ([]domain.Journal, *string, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		conds = append(conds, "status = "+arg(string(*filter.Status)))
	}
	if filter.Period != nil {
		conds = append(conds, "period_year = "+arg(filter.Period.Year), "period_month = "+arg(int(filter.Period.Month)))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, err
		}
		// Row comparison matches the ORDER BY below.
		conds = append(conds, fmt.Sprintf("(journal_date, created_at, journal_id) < (%s, %s, %s)",
			arg(cursor.JournalDate), arg(cursor.CreatedAt), arg(cursor.JournalID)))
	}

	query := `SELECT ` + journalColumns + ` FROM journals`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY journal_date DESC, created_at DESC, journal_id DESC"
	if filter.Limit > 0 {
		// One extra row tells whether there is a next page.
		query += " LIMIT " + arg(filter.Limit+1)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query journals")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Journal])
	if err != nil {
		return nil, nil, mapPgError(err, "failed to scan journals")
	}

	var nextToken *string
	if filter.Limit > 0 && len(ms) > filter.Limit {
		ms = ms[:filter.Limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(pagination.JournalCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID})
		nextToken = &token
	}

	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.JournalID
	}
	lines, err := findLines(ctx, r.Pool, ids)
	if err != nil {
		return nil, nil, err
	}

	journals := make([]domain.Journal, len(ms))
	for i, m := range ms {
		journals[i] = mapping.ToDomainJournal(m, lines[m.JournalID])
	}
	return journals, nextToken, nil
}

// SaveDraft inserts a new draft with its lines.
func (r *PgxJournalRepository) SaveDraft(ctx context.Context, journal domain.Journal) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return insertJournal(ctx, tx, journal)
	})
}

// UpdateDraft replaces a draft and its lines if it is still a draft at expectedVersion.
func (r *PgxJournalRepository) UpdateDraft(ctx context.Context, journal domain.Journal, expectedVersion int64) error {
	m := mapping.ToModelJournal(journal)
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE journals
			SET period_year = $2, period_month = $3, journal_date = $4, description = $5,
			    last_updated_at = $6, last_updated_by = $7, version = $8
			WHERE journal_id = $1 AND status = 'DRAFT' AND version = $9;
		`
		cmdTag, err := tx.Exec(ctx, query,
			m.JournalID,
			m.PeriodYear,
			m.PeriodMonth,
			m.JournalDate,
			m.Description,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.Version,
			expectedVersion,
		)
		if err != nil {
			return mapPgError(err, "failed to update draft "+m.JournalID)
		}
		if cmdTag.RowsAffected() == 0 {
			if _, err := findJournal(ctx, tx, m.JournalID, false); err != nil {
				return err
			}
			return fmt.Errorf("%w: journal %s changed since it was read", apperrors.ErrConflict, m.JournalID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, m.JournalID); err != nil {
			return mapPgError(err, "failed to clear lines of draft "+m.JournalID)
		}
		return insertLines(ctx, tx, journal)
	})
}

// DeleteDraft removes a draft; its lines go with it.
func (r *PgxJournalRepository) DeleteDraft(ctx context.Context, journalID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1 AND status = 'DRAFT';`, journalID)
	if err != nil {
		return mapPgError(err, "failed to delete draft "+journalID)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, err := r.FindJournalByID(ctx, journalID); err != nil {
			return err
		}
		return fmt.Errorf("%w: journal %s is no longer a draft", apperrors.ErrConflict, journalID)
	}
	return nil
}

// insertJournal writes a journal header and its lines within tx.
func insertJournal(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, query,
		m.JournalID,
		m.JournalNumber,
		m.PeriodYear,
		m.PeriodMonth,
		m.JournalDate,
		m.Description,
		m.SourceKind,
		m.SourceRef,
		m.Status,
		m.PostedBy,
		m.PostedAt,
		m.ReversalOf,
		m.ReversedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return mapPgError(err, "failed to insert journal "+m.JournalID)
	}
	return insertLines(ctx, tx, journal)
}

func insertLines(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	lines := mapping.ToModelJournalLines(journal)
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, l := range lines {
		batch.Queue(query, l.JournalID, l.LineNo, l.AccountID, l.AccountCode, l.Debit, l.Credit, l.Description)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "failed to insert lines of journal "+journal.JournalID)
	}
	return nil
}
