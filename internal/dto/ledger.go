package dto

import (
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AsOfParams carries the optional cut-off date of a balance query.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// Date parses AsOf, falling back to today when it is empty.
func (p AsOfParams) Date(today time.Time) (time.Time, error) {
	if p.AsOf == "" {
		return today, nil
	}
	d, err := time.Parse(dateLayout, p.AsOf)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date %q", p.AsOf)
	}
	return d, nil
}

// PeriodParams carries the mandatory YYYY-MM period of a query.
type PeriodParams struct {
	Period string `form:"period" binding:"required"`
}

// Key parses the period.
func (p PeriodParams) Key() (domain.PeriodKey, error) {
	return domain.ParsePeriodKey(p.Period)
}

// BalanceResponse is the balance of one account at a date.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	AsOf      string          `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// LedgerEntryResponse is one statement row.
type LedgerEntryResponse struct {
	JournalID     string          `json:"journalID"`
	DisplayNumber string          `json:"displayNumber"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

// StatementResponse is the buku besar of one account for one period.
type StatementResponse struct {
	Account     AccountResponse       `json:"account"`
	Period      string                `json:"period"`
	Opening     decimal.Decimal       `json:"opening"`
	Entries     []LedgerEntryResponse `json:"entries"`
	TotalDebit  decimal.Decimal       `json:"totalDebit"`
	TotalCredit decimal.Decimal       `json:"totalCredit"`
	Closing     decimal.Decimal       `json:"closing"`
}

// ToStatementResponse converts a domain.Statement.
func ToStatementResponse(s *domain.Statement, scale int32) StatementResponse {
	entries := make([]LedgerEntryResponse, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = LedgerEntryResponse{
			JournalID:     e.JournalID,
			DisplayNumber: e.DisplayNumber,
			Date:          e.JournalDate.Format(dateLayout),
			Description:   e.Description,
			Debit:         e.Debit.Decimal(scale),
			Credit:        e.Credit.Decimal(scale),
			Balance:       e.Balance.Decimal(scale),
		}
	}
	return StatementResponse{
		Account:     ToAccountResponse(&s.Account, scale),
		Period:      s.Period.String(),
		Opening:     s.Opening.Decimal(scale),
		Entries:     entries,
		TotalDebit:  s.TotalDebit.Decimal(scale),
		TotalCredit: s.TotalCredit.Decimal(scale),
		Closing:     s.Closing.Decimal(scale),
	}
}

// TrialBalanceRowResponse is one account of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Balance   decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse is the neraca saldo up to a date.
type TrialBalanceResponse struct {
	AsOf        string                    `json:"asOf"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
	Balanced    bool                      `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb *domain.TrialBalance, scale int32) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID: r.Account.AccountID,
			Code:      r.Account.Code,
			Name:      r.Account.Name,
			Debit:     r.Debit.Decimal(scale),
			Credit:    r.Credit.Decimal(scale),
			Balance:   r.Balance.Decimal(scale),
		}
	}
	return TrialBalanceResponse{
		AsOf:        tb.AsOf.Format(dateLayout),
		Rows:        rows,
		TotalDebit:  tb.TotalDebit.Decimal(scale),
		TotalCredit: tb.TotalCredit.Decimal(scale),
		Balanced:    tb.Balanced(),
	}
}

// ReconciliationResponse is the outcome of reconciling one period.
type ReconciliationResponse struct {
	Period            string                   `json:"period"`
	Balanced          bool                     `json:"balanced"`
	DebitNormalDelta  decimal.Decimal          `json:"debitNormalDelta"`
	CreditNormalDelta decimal.Decimal          `json:"creditNormalDelta"`
	Mismatches        []domain.BalanceMismatch `json:"mismatches,omitempty"`
}

// ToReconciliationResponse converts a domain.ReconciliationReport.
func ToReconciliationResponse(r *domain.ReconciliationReport, scale int32) ReconciliationResponse {
	return ReconciliationResponse{
		Period:            r.Period.String(),
		Balanced:          r.Balanced(),
		DebitNormalDelta:  r.DebitNormalDelta.Decimal(scale),
		CreditNormalDelta: r.CreditNormalDelta.Decimal(scale),
		Mismatches:        r.Mismatches,
	}
}
