package services

import (
	"context"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// LedgerSvc derives per-account ledgers from posted journals.
type LedgerSvc interface {
	// BalanceAsOf folds every posted line of the account dated on or before date.
	BalanceAsOf(ctx context.Context, accountRef string, date time.Time) (domain.Amount, error)

	// Statement returns the account's entries for a period with opening and closing balances.
	Statement(ctx context.Context, accountRef string, period domain.PeriodKey) (*domain.Statement, error)

	// TrialBalance lists debit and credit totals of every account up to asOf.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)

	// Reconcile checks that a period's movements cancel out across normal sides
	// and that running balances agree with posted lines.
	Reconcile(ctx context.Context, period domain.PeriodKey) (*domain.ReconciliationReport, error)
}
