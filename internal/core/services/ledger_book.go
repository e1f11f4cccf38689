package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/utils/accounting"
)

// ledgerBook implements the LedgerSvc interface
type ledgerBook struct {
	BaseService
	ledgerRepo  portsrepo.LedgerReader
	accountRepo portsrepo.AccountReader
	accounts    portssvc.AccountReaderSvc
}

// NewLedgerBook creates the read side of the ledger. It derives everything
// from posted lines and never writes.
func NewLedgerBook(ledgerRepo portsrepo.LedgerReader, accountRepo portsrepo.AccountReader, accounts portssvc.AccountReaderSvc, opts ...ServiceOption) portssvc.LedgerSvc {
	return &ledgerBook{
		BaseService: newBaseService(buildOptions(opts)),
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		accounts:    accounts,
	}
}

var _ portssvc.LedgerSvc = (*ledgerBook)(nil)

func (s *ledgerBook) BalanceAsOf(ctx context.Context, accountRef string, date time.Time) (domain.Amount, error) {
	account, err := s.accounts.Resolve(ctx, accountRef)
	if err != nil {
		return 0, err
	}
	before := domain.DateOf(date, nil).AddDate(0, 0, 1)
	totals, err := s.ledgerRepo.SumPostedLines(ctx, account.AccountID, before)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted lines", slog.String("account_id", account.AccountID))
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return accounting.BalanceFromTotals(*account, totals), nil
}

func (s *ledgerBook) Statement(ctx context.Context, accountRef string, period domain.PeriodKey) (*domain.Statement, error) {
	if !period.Valid() {
		return nil, apperrors.NewValidationError("invalid period %s", period)
	}
	account, err := s.accounts.Resolve(ctx, accountRef)
	if err != nil {
		return nil, err
	}

	openingTotals, err := s.ledgerRepo.SumPostedLines(ctx, account.AccountID, period.Start())
	if err != nil {
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	lines, err := s.ledgerRepo.ListPostedLines(ctx, account.AccountID, period.Start(), period.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list posted lines: %w", err)
	}

	opening := accounting.BalanceFromTotals(*account, openingTotals)
	entries, closing := accounting.RunningEntries(*account, opening, lines)
	totals := accounting.SumLines(lines)

	return &domain.Statement{
		Account:     *account,
		Period:      period,
		Opening:     opening,
		Entries:     entries,
		TotalDebit:  totals.Debit,
		TotalCredit: totals.Credit,
		Closing:     closing,
	}, nil
}

// TrialBalance places each account's net balance in the debit or credit
// column by the sign of debits minus credits.
func (s *ledgerBook) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = domain.DateOf(asOf, nil)
	sums, err := s.ledgerRepo.SumPostedLinesByAccount(ctx, time.Time{}, asOf.AddDate(0, 0, 1))
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted lines by account")
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	accounts, err := s.loadAccounts(ctx, sums)
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{AsOf: asOf, Rows: make([]domain.TrialBalanceRow, 0, len(sums))}
	for id, totals := range sums {
		net := totals.Debit - totals.Credit
		row := domain.TrialBalanceRow{Account: accounts[id], Balance: accounting.BalanceFromTotals(accounts[id], totals)}
		if net >= 0 {
			row.Debit = net
		} else {
			row.Credit = -net
		}
		tb.TotalDebit += row.Debit
		tb.TotalCredit += row.Credit
		tb.Rows = append(tb.Rows, row)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].Account.Code < tb.Rows[j].Account.Code })
	return tb, nil
}

// Reconcile folds the period's movements per normal side and compares every
// stored running balance with the fold of all its posted lines. Both come
// from one snapshot, so a concurrent post never shows up as drift.
func (s *ledgerBook) Reconcile(ctx context.Context, period domain.PeriodKey) (*domain.ReconciliationReport, error) {
	if !period.Valid() {
		return nil, apperrors.NewValidationError("invalid period %s", period)
	}
	snap, err := s.ledgerRepo.ReconciliationSnapshot(ctx, period.Start(), period.End())
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger snapshot", slog.String("period", period.String()))
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}

	report := &domain.ReconciliationReport{Period: period}
	for _, acc := range snap.Accounts {
		if totals, ok := snap.Movements[acc.AccountID]; ok {
			delta := accounting.BalanceFromTotals(acc, totals)
			if acc.NormalBalance == domain.DebitSide {
				report.DebitNormalDelta += delta
			} else {
				report.CreditNormalDelta += delta
			}
		}
		folded := accounting.BalanceFromTotals(acc, snap.AllTime[acc.AccountID])
		if folded != acc.Balance {
			report.Mismatches = append(report.Mismatches, domain.BalanceMismatch{
				AccountID: acc.AccountID,
				Code:      acc.Code,
				Stored:    acc.Balance,
				Folded:    folded,
			})
		}
	}

	if !report.Balanced() {
		s.GetLogger(ctx).Warn("Ledger reconciliation found differences",
			slog.String("period", period.String()),
			slog.Int64("debit_normal_delta", int64(report.DebitNormalDelta)),
			slog.Int64("credit_normal_delta", int64(report.CreditNormalDelta)),
			slog.Int("mismatches", len(report.Mismatches)))
	}
	return report, nil
}

func (s *ledgerBook) loadAccounts(ctx context.Context, sums map[string]domain.LineTotals) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("posted lines reference missing account %s", id)
		}
	}
	return accounts, nil
}
