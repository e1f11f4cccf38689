package producers

import (
	"fmt"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/dto"
)

// SalaryLine is one row of a payroll batch: what an employee costs and which
// account pays it out.
type SalaryLine struct {
	Employee       string
	ExpenseAccount string // e.g. Beban Gaji, Beban Tunjangan
	PaymentAccount string // e.g. Kas, Bank, Utang Gaji
	Amount         domain.Amount
}

// SalaryBatch is the aggregated payroll of one run.
type SalaryBatch struct {
	BatchID     string
	PeriodLabel string // e.g. "Maret 2024"
	Date        time.Time
	Lines       []SalaryLine
}

// SalaryBatchJournal builds one debit per expense account and one credit per
// payment account. Lines are ordered by account reference so the same batch
// always yields the same journal.
func SalaryBatchJournal(batch SalaryBatch) (dto.CreateJournalRequest, error) {
	if batch.BatchID == "" {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("salary batch id is required")
	}
	if err := requireDate(batch.Date); err != nil {
		return dto.CreateJournalRequest{}, err
	}
	if len(batch.Lines) == 0 {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("salary batch %s has no lines", batch.BatchID)
	}

	expenses, payments := newAccumulator(), newAccumulator()
	for i, l := range batch.Lines {
		if err := expenses.add(l.ExpenseAccount, l.Amount); err != nil {
			return dto.CreateJournalRequest{}, fmt.Errorf("salary line %d: %w", i, err)
		}
		if err := payments.add(l.PaymentAccount, l.Amount); err != nil {
			return dto.CreateJournalRequest{}, fmt.Errorf("salary line %d: %w", i, err)
		}
	}
	if _, err := expenses.total(); err != nil {
		return dto.CreateJournalRequest{}, err
	}

	lines := make([]dto.JournalLineInput, 0, len(expenses.order)+len(payments.order))
	for _, ref := range expenses.sorted() {
		lines = append(lines, dto.JournalLineInput{AccountRef: ref, Debit: expenses.totals[ref], Description: "Beban gaji " + batch.BatchID})
	}
	for _, ref := range payments.sorted() {
		lines = append(lines, dto.JournalLineInput{AccountRef: ref, Credit: payments.totals[ref], Description: "Pembayaran gaji " + batch.BatchID})
	}

	description := "Gaji batch " + batch.BatchID
	if batch.PeriodLabel != "" {
		description += " " + batch.PeriodLabel
	}
	return dto.CreateJournalRequest{
		Date:        batch.Date,
		Description: description,
		Source:      domain.SourceRef{Kind: domain.SourceSalaryBatch, Ref: batch.BatchID},
		Lines:       lines,
	}, nil
}
