package mapping

import (
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal. Lines are
// mapped separately with ToModelJournalLines.
func ToModelJournal(d domain.Journal) models.Journal {
	period := d.Period()
	return models.Journal{
		JournalID:     d.JournalID,
		JournalNumber: d.Number,
		PeriodYear:    period.Year,
		PeriodMonth:   int(period.Month),
		JournalDate:   d.JournalDate,
		Description:   d.Description,
		SourceKind:    d.Source.Kind,
		SourceRef:     d.Source.Ref,
		Status:        models.JournalStatus(d.Status),
		PostedBy:      d.PostedBy,
		PostedAt:      d.PostedAt,
		ReversalOf:    d.ReversalOf,
		ReversedBy:    d.ReversedBy,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal and its lines to a domain Journal.
func ToDomainJournal(m models.Journal, lines []models.JournalLine) domain.Journal {
	d := domain.Journal{
		JournalID: m.JournalID,
		Number:    m.JournalNumber,
		// DATE columns come back at UTC midnight already; normalise in case the
		// driver attached a zone.
		JournalDate: domain.DateOf(m.JournalDate, time.UTC),
		Description: m.Description,
		Source:      domain.SourceRef{Kind: m.SourceKind, Ref: m.SourceRef},
		Status:      domain.JournalStatus(m.Status),
		PostedBy:    m.PostedBy,
		PostedAt:    m.PostedAt,
		ReversalOf:  m.ReversalOf,
		ReversedBy:  m.ReversedBy,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		Lines:       make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		d.Lines[i] = domain.JournalLine{
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       domain.Amount(l.Debit),
			Credit:      domain.Amount(l.Credit),
			Description: l.Description,
		}
	}
	return d
}

// ToModelJournalLines converts the lines of a domain Journal.
func ToModelJournalLines(d domain.Journal) []models.JournalLine {
	out := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = models.JournalLine{
			JournalID:   d.JournalID,
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       int64(l.Debit),
			Credit:      int64(l.Credit),
			Description: l.Description,
		}
	}
	return out
}

// ToDomainPostedLine converts a joined ledger row.
func ToDomainPostedLine(m models.PostedLine) domain.PostedLine {
	return domain.PostedLine{
		JournalID:     m.JournalID,
		Number:        m.JournalNumber,
		JournalDate:   domain.DateOf(m.JournalDate, time.UTC),
		Description:   m.Description,
		LineNo:        m.LineNo,
		AccountID:     m.AccountID,
		Debit:         domain.Amount(m.Debit),
		Credit:        domain.Amount(m.Credit),
		LineMemo:      m.LineMemo,
		JournalStatus: domain.JournalStatus(m.Status),
	}
}

// ToDomainLineTotals converts an aggregate row.
func ToDomainLineTotals(m models.LineTotals) domain.LineTotals {
	return domain.LineTotals{Debit: domain.Amount(m.Debit), Credit: domain.Amount(m.Credit)}
}
