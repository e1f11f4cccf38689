package domain

import "time"

// PostedLine is a journal line of a posted or reversed journal, joined with
// the journal header fields the ledger orders by.
type PostedLine struct {
	JournalID     string        `json:"journalID"`
	Number        int64         `json:"number"`
	JournalDate   time.Time     `json:"journalDate"`
	Description   string        `json:"description"`
	LineNo        int           `json:"lineNo"`
	AccountID     string        `json:"accountID"`
	Debit         Amount        `json:"debit"`
	Credit        Amount        `json:"credit"`
	LineMemo      string        `json:"lineMemo,omitempty"`
	JournalStatus JournalStatus `json:"journalStatus"`
}

// LineTotals is the debit and credit sum of a set of posted lines.
type LineTotals struct {
	Debit  Amount `json:"debit"`
	Credit Amount `json:"credit"`
}

// Add accumulates a line into the totals.
func (t LineTotals) Add(debit, credit Amount) LineTotals {
	return LineTotals{Debit: t.Debit + debit, Credit: t.Credit + credit}
}

// LedgerEntry is one row of an account statement.
type LedgerEntry struct {
	JournalID     string    `json:"journalID"`
	Number        int64     `json:"number"`
	DisplayNumber string    `json:"displayNumber"`
	JournalDate   time.Time `json:"journalDate"`
	Description   string    `json:"description"`
	LineNo        int       `json:"lineNo"`
	Debit         Amount    `json:"debit"`
	Credit        Amount    `json:"credit"`
	Balance       Amount    `json:"balance"` // Running balance after this entry
}

// Statement is the ledger of one account over one period.
type Statement struct {
	Account     Account       `json:"account"`
	Period      PeriodKey     `json:"period"`
	Opening     Amount        `json:"opening"`
	Entries     []LedgerEntry `json:"entries"`
	TotalDebit  Amount        `json:"totalDebit"`
	TotalCredit Amount        `json:"totalCredit"`
	Closing     Amount        `json:"closing"`
}

// TrialBalanceRow holds the totals of one account up to a date.
type TrialBalanceRow struct {
	Account Account `json:"account"`
	Debit   Amount  `json:"debit"`
	Credit  Amount  `json:"credit"`
	Balance Amount  `json:"balance"` // Normal-balance terms
}

// TrialBalance lists every account with activity up to AsOf.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  Amount            `json:"totalDebit"`
	TotalCredit Amount            `json:"totalCredit"`
}

// Balanced reports whether the debit and credit columns agree.
func (tb TrialBalance) Balanced() bool { return tb.TotalDebit == tb.TotalCredit }

// BalanceMismatch reports an account whose stored running balance differs from
// the balance folded from its posted lines.
type BalanceMismatch struct {
	AccountID string `json:"accountID"`
	Code      string `json:"code"`
	Stored    Amount `json:"stored"`
	Folded    Amount `json:"folded"`
}

// LedgerSnapshot is everything reconciliation reads, taken at one instant.
type LedgerSnapshot struct {
	Movements map[string]LineTotals // per account ID, lines dated in the period
	AllTime   map[string]LineTotals // per account ID, every posted line
	Accounts  []Account             // ordered by code, with stored running balances
}

// ReconciliationReport is the outcome of reconciling one period.
type ReconciliationReport struct {
	Period            PeriodKey         `json:"period"`
	DebitNormalDelta  Amount            `json:"debitNormalDelta"`  // Σ closing-opening over debit-normal accounts
	CreditNormalDelta Amount            `json:"creditNormalDelta"` // Σ closing-opening over credit-normal accounts
	Mismatches        []BalanceMismatch `json:"mismatches,omitempty"`
}

// Balanced reports whether the period's movements cancel out and every
// running balance agrees with its fold.
func (r ReconciliationReport) Balanced() bool {
	return r.DebitNormalDelta == r.CreditNormalDelta && len(r.Mismatches) == 0
}
