package dto

import (
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// SoftClosePayload lists drafts dated in the period that may stay unposted.
type SoftClosePayload struct {
	ExcludedJournalIDs []string `json:"excludedJournalIDs"`
}

// ReopenPayload carries the mandatory reason recorded in the revision log.
type ReopenPayload struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ListPeriodsParams selects the year whose periods are listed.
type ListPeriodsParams struct {
	Year int `form:"year" binding:"required,min=1,max=9999"`
}

// CanPostParams carries the optional date checked against a period.
type CanPostParams struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// DateIn parses the date, defaulting to the first day of the period. A date
// outside the period is rejected.
func (p CanPostParams) DateIn(key domain.PeriodKey) (time.Time, error) {
	if p.Date == "" {
		return key.Start(), nil
	}
	d, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date %q", p.Date)
	}
	if domain.PeriodOf(d) != key {
		return time.Time{}, apperrors.NewValidationError("date %s is outside period %s", p.Date, key)
	}
	return d, nil
}

// PeriodResponse defines the data returned for a closing period.
type PeriodResponse struct {
	Period        string              `json:"period"`
	Status        domain.PeriodStatus `json:"status"`
	SoftClosedAt  *time.Time          `json:"softClosedAt,omitempty"`
	HardClosedAt  *time.Time          `json:"hardClosedAt,omitempty"`
	ApprovedBy    *string             `json:"approvedBy,omitempty"`
	ReopenCount   int                 `json:"reopenCount"`
	Version       int64               `json:"version"`
	LastUpdatedAt *time.Time          `json:"lastUpdatedAt,omitempty"`
	LastUpdatedBy string              `json:"lastUpdatedBy,omitempty"`
}

// ToPeriodResponse converts a domain.ClosingPeriod. A period that was never
// stored has no update timestamp.
func ToPeriodResponse(p *domain.ClosingPeriod) PeriodResponse {
	resp := PeriodResponse{
		Period:        p.Key.String(),
		Status:        p.Status,
		SoftClosedAt:  p.SoftClosedAt,
		HardClosedAt:  p.HardClosedAt,
		ApprovedBy:    p.ApprovedBy,
		ReopenCount:   p.ReopenCount,
		Version:       p.Version,
		LastUpdatedBy: p.LastUpdatedBy,
	}
	if resp.Status == "" {
		resp.Status = domain.PeriodOpen
	}
	if !p.LastUpdatedAt.IsZero() {
		updated := p.LastUpdatedAt
		resp.LastUpdatedAt = &updated
	}
	return resp
}

// ToPeriodResponses converts a slice of domain.ClosingPeriod.
func ToPeriodResponses(periods []domain.ClosingPeriod) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToPeriodResponse(&periods[i])
	}
	return out
}

// PostingDecisionResponse answers whether a date accepts postings.
type PostingDecisionResponse struct {
	Period string `json:"period"`
	Date   string `json:"date"`
	domain.PostingDecision
}

// ToPostingDecisionResponse converts a domain.PostingDecision for date.
func ToPostingDecisionResponse(date time.Time, d domain.PostingDecision) PostingDecisionResponse {
	return PostingDecisionResponse{
		Period:          domain.PeriodOf(date).String(),
		Date:            date.Format(dateLayout),
		PostingDecision: d,
	}
}

// PeriodEventResponse is one revision-log record.
type PeriodEventResponse struct {
	EventID    string              `json:"eventID"`
	Period     string              `json:"period"`
	Action     domain.PeriodAction `json:"action"`
	From       domain.PeriodStatus `json:"from"`
	To         domain.PeriodStatus `json:"to"`
	Actor      string              `json:"actor"`
	Reason     string              `json:"reason,omitempty"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// ToPeriodEventResponses converts the revision log of a period.
func ToPeriodEventResponses(events []domain.PeriodEvent) []PeriodEventResponse {
	out := make([]PeriodEventResponse, len(events))
	for i, e := range events {
		out[i] = PeriodEventResponse{
			EventID:    e.EventID,
			Period:     e.Period.String(),
			Action:     e.Action,
			From:       e.From,
			To:         e.To,
			Actor:      e.Actor,
			Reason:     e.Reason,
			OccurredAt: e.OccurredAt,
		}
	}
	return out
}
