package mapping

import (
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/models"
)

// ToModelClosingPeriod converts a domain ClosingPeriod to a model ClosingPeriod
func ToModelClosingPeriod(d domain.ClosingPeriod) models.ClosingPeriod {
	return models.ClosingPeriod{
		PeriodYear:   d.Key.Year,
		PeriodMonth:  int(d.Key.Month),
		Status:       string(d.Status),
		SoftClosedAt: d.SoftClosedAt,
		HardClosedAt: d.HardClosedAt,
		ApprovedBy:   d.ApprovedBy,
		ReopenCount:  d.ReopenCount,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClosingPeriod converts a model ClosingPeriod to a domain ClosingPeriod
func ToDomainClosingPeriod(m models.ClosingPeriod) domain.ClosingPeriod {
	return domain.ClosingPeriod{
		Key:          domain.PeriodKey{Year: m.PeriodYear, Month: time.Month(m.PeriodMonth)},
		Status:       domain.PeriodStatus(m.Status),
		SoftClosedAt: m.SoftClosedAt,
		HardClosedAt: m.HardClosedAt,
		ApprovedBy:   m.ApprovedBy,
		ReopenCount:  m.ReopenCount,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPeriodEvent converts a domain PeriodEvent to a model PeriodEvent
func ToModelPeriodEvent(d domain.PeriodEvent) models.PeriodEvent {
	return models.PeriodEvent{
		EventID:     d.EventID,
		PeriodYear:  d.Period.Year,
		PeriodMonth: int(d.Period.Month),
		Action:      string(d.Action),
		FromStatus:  string(d.From),
		ToStatus:    string(d.To),
		Actor:       d.Actor,
		Reason:      d.Reason,
		OccurredAt:  d.OccurredAt,
	}
}

// ToDomainPeriodEvent converts a model PeriodEvent to a domain PeriodEvent
func ToDomainPeriodEvent(m models.PeriodEvent) domain.PeriodEvent {
	return domain.PeriodEvent{
		EventID:    m.EventID,
		Period:     domain.PeriodKey{Year: m.PeriodYear, Month: time.Month(m.PeriodMonth)},
		Action:     domain.PeriodAction(m.Action),
		From:       domain.PeriodStatus(m.FromStatus),
		To:         domain.PeriodStatus(m.ToStatus),
		Actor:      m.Actor,
		Reason:     m.Reason,
		OccurredAt: m.OccurredAt,
	}
}
