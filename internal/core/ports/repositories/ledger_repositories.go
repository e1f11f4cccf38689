package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// LedgerReader reads lines of posted and reversed journals. Drafts are never visible here.
type LedgerReader interface {
	// ListPostedLines returns the lines of an account dated in [from, to), ordered by
	// (journal date, journal number, journal id, line no). A zero bound is open.
	ListPostedLines(ctx context.Context, accountID string, from, to time.Time) ([]domain.PostedLine, error)

	// SumPostedLines totals the lines of an account dated before the given date.
	SumPostedLines(ctx context.Context, accountID string, before time.Time) (domain.LineTotals, error)

	// SumPostedLinesByAccount totals lines per account dated in [from, to). A zero bound is open.
	SumPostedLinesByAccount(ctx context.Context, from, to time.Time) (map[string]domain.LineTotals, error)

	// ReconciliationSnapshot reads the movements dated in [from, to), the totals of
	// every posted line and all accounts with their stored balances as one
	// consistent view.
	ReconciliationSnapshot(ctx context.Context, from, to time.Time) (domain.LedgerSnapshot, error)
}
