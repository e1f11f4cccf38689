package models

import "time"

// ClosingPeriod is a row of the closing_periods table.
type ClosingPeriod struct {
	PeriodYear   int        `db:"period_year"`
	PeriodMonth  int        `db:"period_month"`
	Status       string     `db:"status"`
	SoftClosedAt *time.Time `db:"soft_closed_at"`
	HardClosedAt *time.Time `db:"hard_closed_at"`
	ApprovedBy   *string    `db:"approved_by"`
	ReopenCount  int        `db:"reopen_count"`
	AuditFields
}

// PeriodEvent is a row of the period_events table.
type PeriodEvent struct {
	EventID     string    `db:"event_id"`
	PeriodYear  int       `db:"period_year"`
	PeriodMonth int       `db:"period_month"`
	Action      string    `db:"action"`
	FromStatus  string    `db:"from_status"`
	ToStatus    string    `db:"to_status"`
	Actor       string    `db:"actor"`
	Reason      string    `db:"reason"`
	OccurredAt  time.Time `db:"occurred_at"`
}
