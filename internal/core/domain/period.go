package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
)

// PeriodKey identifies an accounting period (one calendar month).
type PeriodKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the period a journal date falls into.
func PeriodOf(date time.Time) PeriodKey {
	return PeriodKey{Year: date.Year(), Month: date.Month()}
}

// ParsePeriodKey parses "YYYY-MM".
func ParsePeriodKey(s string) (PeriodKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return PeriodKey{}, apperrors.NewValidationError("period %q must be formatted as YYYY-MM", s)
	}
	return PeriodOf(t), nil
}

func (k PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Start is the first day of the period, UTC midnight.
func (k PeriodKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first day of the following period (exclusive bound).
func (k PeriodKey) End() time.Time {
	return k.Start().AddDate(0, 1, 0)
}

// Prev returns the preceding period.
func (k PeriodKey) Prev() PeriodKey {
	return PeriodOf(k.Start().AddDate(0, -1, 0))
}

// Valid reports whether the key names a real month.
func (k PeriodKey) Valid() bool {
	return k.Year > 0 && k.Month >= time.January && k.Month <= time.December
}

// PeriodStatus is the closing state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen       PeriodStatus = "OPEN"
	PeriodSoftClosed PeriodStatus = "SOFT_CLOSED"
	PeriodHardClosed PeriodStatus = "HARD_CLOSED"
)

// Capability is a set of permissions the caller asserts. Deciding who holds
// them is the job of the surrounding application.
type Capability uint8

const (
	// CapReviseSoftClosed allows posting into a soft-closed period.
	CapReviseSoftClosed Capability = 1 << iota
	// CapReopenPeriod allows reopening a closed period.
	CapReopenPeriod
)

// Has reports whether all bits of want are present.
func (c Capability) Has(want Capability) bool { return c&want == want }

// CapabilityFromNames maps claim strings to capabilities; unknown names are ignored.
func CapabilityFromNames(names []string) Capability {
	var c Capability
	for _, n := range names {
		switch n {
		case "revise_soft_closed":
			c |= CapReviseSoftClosed
		case "reopen_period":
			c |= CapReopenPeriod
		}
	}
	return c
}

// ClosingPeriod is the stored close state of a period. A period without a
// stored record behaves as OPEN.
type ClosingPeriod struct {
	Key          PeriodKey    `json:"period"`
	Status       PeriodStatus `json:"status"`
	SoftClosedAt *time.Time   `json:"softClosedAt,omitempty"`
	HardClosedAt *time.Time   `json:"hardClosedAt,omitempty"`
	ApprovedBy   *string      `json:"approvedBy,omitempty"` // Actor that performed the last close
	ReopenCount  int          `json:"reopenCount"`
	AuditFields
}

// NewOpenPeriod returns the implicit state of a period that was never closed.
func NewOpenPeriod(key PeriodKey) ClosingPeriod {
	return ClosingPeriod{Key: key, Status: PeriodOpen}
}

// PostingDecision is the outcome of asking whether a period accepts postings.
type PostingDecision struct {
	Allowed                  bool         `json:"allowed"`
	Status                   PeriodStatus `json:"status"`
	Reason                   string       `json:"reason,omitempty"`
	RequiresRevisionApproval bool         `json:"requiresRevisionApproval"`
}

// CanPost decides whether the period accepts postings from a caller holding caps.
func (p ClosingPeriod) CanPost(caps Capability) PostingDecision {
	switch p.Status {
	case PeriodOpen, "":
		return PostingDecision{Allowed: true, Status: PeriodOpen}
	case PeriodSoftClosed:
		if caps.Has(CapReviseSoftClosed) {
			return PostingDecision{Allowed: true, Status: p.Status, RequiresRevisionApproval: true}
		}
		return PostingDecision{Status: p.Status, Reason: "soft-closed period requires revision capability", RequiresRevisionApproval: true}
	default:
		return PostingDecision{Status: p.Status, Reason: "hard-closed period accepts no postings"}
	}
}

// LockedError turns a negative decision into a PeriodLockedError.
func (d PostingDecision) LockedError(key PeriodKey) error {
	return &apperrors.PeriodLockedError{Period: key.String(), Status: string(d.Status), Reason: d.Reason}
}

// PeriodAction names a period state transition.
type PeriodAction string

const (
	ActionSoftClose PeriodAction = "SOFT_CLOSE"
	ActionHardClose PeriodAction = "HARD_CLOSE"
	ActionReopen    PeriodAction = "REOPEN"
)

// PeriodEvent is the revision-log record of a period transition.
type PeriodEvent struct {
	EventID    string       `json:"eventID"`
	Period     PeriodKey    `json:"period"`
	Action     PeriodAction `json:"action"`
	From       PeriodStatus `json:"from"`
	To         PeriodStatus `json:"to"`
	Actor      string       `json:"actor"`
	Reason     string       `json:"reason,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// SoftClose moves an open period to SOFT_CLOSED.
func (p *ClosingPeriod) SoftClose(eventID, actor string, now time.Time) (PeriodEvent, error) {
	if p.currentStatus() != PeriodOpen {
		return PeriodEvent{}, p.transitionError(PeriodSoftClosed)
	}
	ev := p.apply(eventID, ActionSoftClose, PeriodSoftClosed, actor, "", now)
	p.SoftClosedAt = &now
	p.ApprovedBy = &actor
	return ev, nil
}

// HardClose moves a soft-closed period to HARD_CLOSED.
func (p *ClosingPeriod) HardClose(eventID, actor string, now time.Time) (PeriodEvent, error) {
	if p.currentStatus() != PeriodSoftClosed {
		return PeriodEvent{}, p.transitionError(PeriodHardClosed)
	}
	ev := p.apply(eventID, ActionHardClose, PeriodHardClosed, actor, "", now)
	p.HardClosedAt = &now
	p.ApprovedBy = &actor
	return ev, nil
}

// Reopen moves a closed period back to OPEN. The caller must assert
// CapReopenPeriod and give a reason, which lands in the returned event.
func (p *ClosingPeriod) Reopen(eventID, actor, reason string, caps Capability, now time.Time) (PeriodEvent, error) {
	if !caps.Has(CapReopenPeriod) {
		return PeriodEvent{}, fmt.Errorf("%w: reopening period %s requires the reopen capability", apperrors.ErrForbidden, p.Key)
	}
	if reason == "" {
		return PeriodEvent{}, apperrors.NewValidationError("reopening period %s requires a reason", p.Key)
	}
	switch p.currentStatus() {
	case PeriodSoftClosed, PeriodHardClosed:
	default:
		return PeriodEvent{}, p.transitionError(PeriodOpen)
	}
	ev := p.apply(eventID, ActionReopen, PeriodOpen, actor, reason, now)
	p.SoftClosedAt = nil
	p.HardClosedAt = nil
	p.ReopenCount++
	return ev, nil
}

func (p *ClosingPeriod) currentStatus() PeriodStatus {
	if p.Status == "" {
		return PeriodOpen
	}
	return p.Status
}

func (p *ClosingPeriod) transitionError(to PeriodStatus) error {
	return &apperrors.TransitionError{Entity: "period " + p.Key.String(), From: string(p.currentStatus()), To: string(to)}
}

func (p *ClosingPeriod) apply(eventID string, action PeriodAction, to PeriodStatus, actor, reason string, now time.Time) PeriodEvent {
	ev := PeriodEvent{
		EventID:    eventID,
		Period:     p.Key,
		Action:     action,
		From:       p.currentStatus(),
		To:         to,
		Actor:      actor,
		Reason:     reason,
		OccurredAt: now,
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
		p.CreatedBy = actor
	}
	p.Status = to
	p.LastUpdatedAt = now
	p.LastUpdatedBy = actor
	p.Version++
	return ev
}
