package models

import "time"

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal is a row of the journals table. Lines are loaded separately.
type Journal struct {
	JournalID     string        `db:"journal_id"`
	JournalNumber int64         `db:"journal_number"`
	PeriodYear    int           `db:"period_year"`
	PeriodMonth   int           `db:"period_month"`
	JournalDate   time.Time     `db:"journal_date"`
	Description   string        `db:"description"`
	SourceKind    string        `db:"source_kind"`
	SourceRef     string        `db:"source_ref"`
	Status        JournalStatus `db:"status"`
	PostedBy      *string       `db:"posted_by"`
	PostedAt      *time.Time    `db:"posted_at"`
	ReversalOf    *string       `db:"reversal_of"`
	ReversedBy    *string       `db:"reversed_by"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	JournalID   string `db:"journal_id"`
	LineNo      int    `db:"line_no"`
	AccountID   string `db:"account_id"`
	AccountCode string `db:"account_code"`
	Debit       int64  `db:"debit"`
	Credit      int64  `db:"credit"`
	Description string `db:"description"`
}

// PostedLine is a journal line joined with the header columns the ledger orders by.
type PostedLine struct {
	JournalID     string        `db:"journal_id"`
	JournalNumber int64         `db:"journal_number"`
	JournalDate   time.Time     `db:"journal_date"`
	Description   string        `db:"description"`
	Status        JournalStatus `db:"status"`
	LineNo        int           `db:"line_no"`
	AccountID     string        `db:"account_id"`
	Debit         int64         `db:"debit"`
	Credit        int64         `db:"credit"`
	LineMemo      string        `db:"line_memo"`
}

// LineTotals is an aggregate over journal lines.
type LineTotals struct {
	AccountID string `db:"account_id"`
	Debit     int64  `db:"debit"`
	Credit    int64  `db:"credit"`
}
