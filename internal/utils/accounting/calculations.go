package accounting

import "github.com/SscSPs/bukubesar/internal/core/domain"

// BalanceFromTotals converts debit and credit totals into a balance in the
// account's normal-balance terms.
func BalanceFromTotals(account domain.Account, totals domain.LineTotals) domain.Amount {
	return account.SignedAmount(totals.Debit, totals.Credit)
}

// SumLines totals posted lines.
func SumLines(lines []domain.PostedLine) domain.LineTotals {
	var t domain.LineTotals
	for _, l := range lines {
		t = t.Add(l.Debit, l.Credit)
	}
	return t
}

// RunningEntries folds lines, which must already be in ledger order, into
// statement entries starting from opening. It returns the entries and the
// closing balance.
func RunningEntries(account domain.Account, opening domain.Amount, lines []domain.PostedLine) ([]domain.LedgerEntry, domain.Amount) {
	entries := make([]domain.LedgerEntry, 0, len(lines))
	balance := opening
	for _, l := range lines {
		balance += account.SignedAmount(l.Debit, l.Credit)
		j := domain.Journal{Number: l.Number, JournalDate: l.JournalDate}
		entries = append(entries, domain.LedgerEntry{
			JournalID:     l.JournalID,
			Number:        l.Number,
			DisplayNumber: j.DisplayNumber(),
			JournalDate:   l.JournalDate,
			Description:   lineDescription(l),
			LineNo:        l.LineNo,
			Debit:         l.Debit,
			Credit:        l.Credit,
			Balance:       balance,
		})
	}
	return entries, balance
}

func lineDescription(l domain.PostedLine) string {
	if l.LineMemo != "" {
		return l.LineMemo
	}
	return l.Description
}
