package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// JournalLineInput is one line of a journal request, amounts in minor units.
// AccountRef is an account ID or code.
type JournalLineInput struct {
	AccountRef  string
	Debit       domain.Amount
	Credit      domain.Amount
	Description string
}

// CreateJournalRequest is what upstream producers and the HTTP layer hand to the poster.
type CreateJournalRequest struct {
	Date        time.Time
	Description string
	Source      domain.SourceRef
	Lines       []JournalLineInput
}

// UpdateJournalRequest replaces the editable fields of a draft.
type UpdateJournalRequest struct {
	Date        time.Time
	Description string
	Lines       []JournalLineInput
}

// ReverseJournalRequest controls the reversing journal. A nil Date means today.
type ReverseJournalRequest struct {
	Date        *time.Time
	Description string
}

// JournalLinePayload is a journal line as received over HTTP.
type JournalLinePayload struct {
	Account     string          `json:"account" binding:"required"` // Account ID or code
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalPayload is the HTTP body for creating or replacing a draft.
type JournalPayload struct {
	Date        string               `json:"date" binding:"required,datetime=2006-01-02"`
	Description string               `json:"description" binding:"max=500"`
	SourceKind  string               `json:"sourceKind"`
	SourceRef   string               `json:"sourceRef"`
	Lines       []JournalLinePayload `json:"lines" binding:"dive"`
}

// ReversePayload is the HTTP body for reversing a journal.
type ReversePayload struct {
	Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Description string `json:"description"`
}

// ToCreateRequest converts the payload using the ledger currency scale.
func (p JournalPayload) ToCreateRequest(scale int32) (CreateJournalRequest, error) {
	date, lines, err := p.convert(scale)
	if err != nil {
		return CreateJournalRequest{}, err
	}
	return CreateJournalRequest{
		Date:        date,
		Description: p.Description,
		Source:      domain.SourceRef{Kind: p.SourceKind, Ref: p.SourceRef},
		Lines:       lines,
	}, nil
}

// ToUpdateRequest converts the payload using the ledger currency scale.
func (p JournalPayload) ToUpdateRequest(scale int32) (UpdateJournalRequest, error) {
	date, lines, err := p.convert(scale)
	if err != nil {
		return UpdateJournalRequest{}, err
	}
	return UpdateJournalRequest{Date: date, Description: p.Description, Lines: lines}, nil
}

// ToRequest converts the reversal payload.
func (p ReversePayload) ToRequest() (ReverseJournalRequest, error) {
	req := ReverseJournalRequest{Description: p.Description}
	if p.Date != "" {
		d, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return req, apperrors.NewValidationError("invalid date %q", p.Date)
		}
		req.Date = &d
	}
	return req, nil
}

func (p JournalPayload) convert(scale int32) (time.Time, []JournalLineInput, error) {
	date, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return time.Time{}, nil, apperrors.NewValidationError("invalid date %q", p.Date)
	}
	lines := make([]JournalLineInput, len(p.Lines))
	for i, l := range p.Lines {
		debit, err := domain.AmountFromDecimal(l.Debit, scale)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: line %d debit: %s", apperrors.ErrValidation, i, err.Error())
		}
		credit, err := domain.AmountFromDecimal(l.Credit, scale)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: line %d credit: %s", apperrors.ErrValidation, i, err.Error())
		}
		lines[i] = JournalLineInput{AccountRef: l.Account, Debit: debit, Credit: credit, Description: l.Description}
	}
	return date, lines, nil
}

// ListJournalsParams defines the query parameters for listing journals.
type ListJournalsParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	Period    string  `form:"period"` // YYYY-MM
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID     string                `json:"journalID"`
	Number        int64                 `json:"number,omitempty"`
	DisplayNumber string                `json:"displayNumber,omitempty"`
	Period        string                `json:"period"`
	Date          string                `json:"date"`
	Description   string                `json:"description"`
	Source        domain.SourceRef      `json:"source"`
	Status        domain.JournalStatus  `json:"status"`
	TotalDebit    decimal.Decimal       `json:"totalDebit"`
	TotalCredit   decimal.Decimal       `json:"totalCredit"`
	Lines         []JournalLineResponse `json:"lines"`
	PostedBy      *string               `json:"postedBy,omitempty"`
	PostedAt      *time.Time            `json:"postedAt,omitempty"`
	ReversalOf    *string               `json:"reversalOf,omitempty"`
	ReversedBy    *string               `json:"reversedBy,omitempty"`
	Version       int64                 `json:"version"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
}

// ListJournalsResponse wraps a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal, scale int32) JournalResponse {
	lines := make([]JournalLineResponse, len(j.Lines))
	var debit, credit domain.Amount
	for i, l := range j.Lines {
		lines[i] = JournalLineResponse{
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit.Decimal(scale),
			Credit:      l.Credit.Decimal(scale),
			Description: l.Description,
		}
		debit += l.Debit
		credit += l.Credit
	}
	return JournalResponse{
		JournalID:     j.JournalID,
		Number:        j.Number,
		DisplayNumber: j.DisplayNumber(),
		Period:        j.Period().String(),
		Date:          j.JournalDate.Format(dateLayout),
		Description:   j.Description,
		Source:        j.Source,
		Status:        j.Status,
		TotalDebit:    debit.Decimal(scale),
		TotalCredit:   credit.Decimal(scale),
		Lines:         lines,
		PostedBy:      j.PostedBy,
		PostedAt:      j.PostedAt,
		ReversalOf:    j.ReversalOf,
		ReversedBy:    j.ReversedBy,
		Version:       j.Version,
		CreatedAt:     j.CreatedAt,
		CreatedBy:     j.CreatedBy,
	}
}

// ToJournalResponses converts a slice of domain.Journal.
func ToJournalResponses(journals []domain.Journal, scale int32) []JournalResponse {
	out := make([]JournalResponse, len(journals))
	for i := range journals {
		out[i] = ToJournalResponse(&journals[i], scale)
	}
	return out
}
