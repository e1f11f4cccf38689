package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Source kinds recorded on journals built by upstream producers.
const (
	SourceManual          = "MANUAL"
	SourceSalaryBatch     = "SALARY_BATCH"
	SourceCash            = "CASH"
	SourceBank            = "BANK"
	SourceGiro            = "GIRO"
	SourcePurchaseReceipt = "PURCHASE_RECEIPT"
	SourceReversal        = "REVERSAL"
)

// SourceRef points back to the business document a journal was generated from.
type SourceRef struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref,omitempty"` // e.g. salary batch_id
}

// JournalLine is one debit or credit of a journal. Exactly one of Debit and
// Credit is nonzero on a well-formed line.
type JournalLine struct {
	LineNo      int    `json:"lineNo"`
	AccountID   string `json:"accountID"`             // Account ID, or the code as entered while the journal is a draft
	AccountCode string `json:"accountCode,omitempty"` // Filled in once the account is resolved
	Debit       Amount `json:"debit"`
	Credit      Amount `json:"credit"`
	Description string `json:"description,omitempty"`
}

// Journal is a dated set of lines whose debits equal credits once posted.
type Journal struct {
	JournalID   string        `json:"journalID"`   // Primary Key (UUID)
	Number      int64         `json:"number"`      // Sequential within the period, 0 while draft
	JournalDate time.Time     `json:"journalDate"` // Calendar date at UTC midnight
	Description string        `json:"description"`
	Source      SourceRef     `json:"source"`
	Status      JournalStatus `json:"status"`
	Lines       []JournalLine `json:"lines"`
	PostedBy    *string       `json:"postedBy,omitempty"`
	PostedAt    *time.Time    `json:"postedAt,omitempty"`
	ReversalOf  *string       `json:"reversalOf,omitempty"` // Set on a reversing journal
	ReversedBy  *string       `json:"reversedBy,omitempty"` // Set on the original once reversed
	AuditFields
}

// NewDraftJournal builds a draft. Drafts may be unbalanced; nothing is checked
// until posting.
func NewDraftJournal(id string, date time.Time, description string, source SourceRef, lines []JournalLine, actor string, now time.Time) Journal {
	if source.Kind == "" {
		source.Kind = SourceManual
	}
	return Journal{
		JournalID:   id,
		JournalDate: date,
		Description: description,
		Source:      source,
		Status:      Draft,
		Lines:       numberLines(lines),
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
			Version:       1,
		},
	}
}

// Period returns the accounting period of the journal date.
func (j Journal) Period() PeriodKey { return PeriodOf(j.JournalDate) }

// DisplayNumber renders the number as printed on vouchers, e.g. "JU/2024/03/0007".
func (j Journal) DisplayNumber() string {
	if j.Number == 0 {
		return ""
	}
	return fmt.Sprintf("JU/%04d/%02d/%04d", j.JournalDate.Year(), int(j.JournalDate.Month()), j.Number)
}

// IsReversal reports whether the journal reverses another one.
func (j Journal) IsReversal() bool { return j.ReversalOf != nil }

// ReviseDraft replaces the editable fields of a draft.
func (j *Journal) ReviseDraft(date time.Time, description string, lines []JournalLine, actor string, now time.Time) error {
	if j.Status != Draft {
		return &apperrors.TransitionError{Entity: "journal " + j.JournalID, From: string(j.Status), To: string(Draft), Reason: "only drafts can be edited"}
	}
	j.JournalDate = date
	j.Description = description
	j.Lines = numberLines(lines)
	j.LastUpdatedAt = now
	j.LastUpdatedBy = actor
	j.Version++
	return nil
}

// MarkPosted stamps a validated draft as posted with its period number.
func (j *Journal) MarkPosted(number int64, actor string, now time.Time) error {
	if j.Status != Draft {
		return &apperrors.TransitionError{Entity: "journal " + j.JournalID, From: string(j.Status), To: string(Posted)}
	}
	j.Status = Posted
	j.Number = number
	j.PostedBy = &actor
	j.PostedAt = &now
	j.LastUpdatedAt = now
	j.LastUpdatedBy = actor
	j.Version++
	return nil
}

// MarkReversed flips a posted journal to REVERSED and links the reversal.
func (j *Journal) MarkReversed(reversalID, actor string, now time.Time) error {
	if err := j.CheckReversible(); err != nil {
		return err
	}
	j.Status = Reversed
	j.ReversedBy = &reversalID
	j.LastUpdatedAt = now
	j.LastUpdatedBy = actor
	j.Version++
	return nil
}

// CheckReversible rejects anything but a posted, non-reversal journal.
func (j Journal) CheckReversible() error {
	entity := "journal " + j.JournalID
	switch {
	case j.Status == Reversed:
		return &apperrors.TransitionError{Entity: entity, From: string(j.Status), To: string(Reversed), Reason: "journal is already reversed"}
	case j.Status != Posted:
		return &apperrors.TransitionError{Entity: entity, From: string(j.Status), To: string(Reversed), Reason: "only posted journals can be reversed"}
	case j.IsReversal():
		return &apperrors.TransitionError{Entity: entity, From: string(j.Status), To: string(Reversed), Reason: "a reversing journal cannot itself be reversed"}
	}
	return nil
}

// ReversalDraft builds the mirror draft of a posted journal: every line has its
// debit and credit swapped and the draft is dated on date.
func (j Journal) ReversalDraft(id string, date time.Time, description, actor string, now time.Time) Journal {
	lines := make([]JournalLine, len(j.Lines))
	for i, l := range j.Lines {
		lines[i] = JournalLine{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
		}
	}
	if description == "" {
		description = fmt.Sprintf("Reversal of %s", j.referenceLabel())
	}
	rev := NewDraftJournal(id, date, description, SourceRef{Kind: SourceReversal, Ref: j.JournalID}, lines, actor, now)
	original := j.JournalID
	rev.ReversalOf = &original
	return rev
}

func (j Journal) referenceLabel() string {
	if n := j.DisplayNumber(); n != "" {
		return n
	}
	return j.JournalID
}

// Totals sums debits and credits in minor units.
func Totals(lines []JournalLine) (debit, credit Amount, err error) {
	var ok bool
	for i, l := range lines {
		if debit, ok = debit.AddChecked(l.Debit); !ok {
			return 0, 0, &apperrors.LineError{Index: i, Reason: "debit total overflows"}
		}
		if credit, ok = credit.AddChecked(l.Credit); !ok {
			return 0, 0, &apperrors.LineError{Index: i, Reason: "credit total overflows"}
		}
	}
	return debit, credit, nil
}

// ValidateLines runs the structural checks of posting: at least one line, and
// every line non-negative with exactly one side nonzero.
func ValidateLines(lines []JournalLine) error {
	if len(lines) == 0 {
		return apperrors.ErrEmptyJournal
	}
	for i, l := range lines {
		switch {
		case l.Debit < 0 || l.Credit < 0:
			return &apperrors.LineError{Index: i, Reason: "amounts must not be negative"}
		case l.Debit != 0 && l.Credit != 0:
			return &apperrors.LineError{Index: i, Reason: "line has both a debit and a credit"}
		case l.Debit == 0 && l.Credit == 0:
			return &apperrors.LineError{Index: i, Reason: "line has neither a debit nor a credit"}
		case l.AccountID == "":
			return &apperrors.LineError{Index: i, Reason: "line has no account"}
		}
	}
	return nil
}

// CheckBalance compares integer totals exactly; there is no tolerance.
func CheckBalance(lines []JournalLine) error {
	debit, credit, err := Totals(lines)
	if err != nil {
		return err
	}
	if debit != credit {
		return &apperrors.UnbalancedError{Debit: int64(debit), Credit: int64(credit)}
	}
	return nil
}

// BalanceChanges returns the running-balance delta per account for lines, in
// each account's normal-balance terms.
func BalanceChanges(lines []JournalLine, accounts map[string]Account) map[string]Amount {
	changes := make(map[string]Amount, len(accounts))
	for _, l := range lines {
		acc := accounts[l.AccountID]
		changes[l.AccountID] += acc.SignedAmount(l.Debit, l.Credit)
	}
	return changes
}

func numberLines(lines []JournalLine) []JournalLine {
	out := make([]JournalLine, len(lines))
	for i, l := range lines {
		l.LineNo = i + 1
		out[i] = l
	}
	return out
}
