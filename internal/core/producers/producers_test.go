package producers_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/core/producers"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payday = time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)

func totals(lines []dto.JournalLineInput) (debit, credit domain.Amount) {
	for _, l := range lines {
		debit += l.Debit
		credit += l.Credit
	}
	return debit, credit
}

func TestSalaryBatchJournal_AggregatesPerAccount(t *testing.T) {
	req, err := producers.SalaryBatchJournal(producers.SalaryBatch{
		BatchID:     "PAY-2024-03",
		PeriodLabel: "Maret 2024",
		Date:        payday,
		Lines: []producers.SalaryLine{
			{Employee: "Andi", ExpenseAccount: "5-1100", PaymentAccount: "1-1200", Amount: 500_000},
			{Employee: "Budi", ExpenseAccount: "5-1200", PaymentAccount: "1-1200", Amount: 150_000},
			{Employee: "Citra", ExpenseAccount: "5-1100", PaymentAccount: "1-1100", Amount: 400_000},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRef{Kind: domain.SourceSalaryBatch, Ref: "PAY-2024-03"}, req.Source)
	assert.Equal(t, "Gaji batch PAY-2024-03 Maret 2024", req.Description)
	assert.Equal(t, payday, req.Date)
	require.Len(t, req.Lines, 4)

	assert.Equal(t, "5-1100", req.Lines[0].AccountRef)
	assert.Equal(t, domain.Amount(900_000), req.Lines[0].Debit)
	assert.Equal(t, "5-1200", req.Lines[1].AccountRef)
	assert.Equal(t, domain.Amount(150_000), req.Lines[1].Debit)
	assert.Equal(t, "1-1100", req.Lines[2].AccountRef)
	assert.Equal(t, domain.Amount(400_000), req.Lines[2].Credit)
	assert.Equal(t, "1-1200", req.Lines[3].AccountRef)
	assert.Equal(t, domain.Amount(650_000), req.Lines[3].Credit)

	debit, credit := totals(req.Lines)
	assert.Equal(t, debit, credit)
}

func TestSalaryBatchJournal_SkipsZeroRows(t *testing.T) {
	req, err := producers.SalaryBatchJournal(producers.SalaryBatch{
		BatchID: "PAY-1",
		Date:    payday,
		Lines: []producers.SalaryLine{
			{ExpenseAccount: "5-1100", PaymentAccount: "1-1100", Amount: 100},
			{ExpenseAccount: "5-1300", PaymentAccount: "1-1200", Amount: 0},
		},
	})
	require.NoError(t, err)
	assert.Len(t, req.Lines, 2)
}

func TestSalaryBatchJournal_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		batch producers.SalaryBatch
	}{
		{"missing batch id", producers.SalaryBatch{Date: payday, Lines: []producers.SalaryLine{{ExpenseAccount: "a", PaymentAccount: "b", Amount: 1}}}},
		{"missing date", producers.SalaryBatch{BatchID: "B", Lines: []producers.SalaryLine{{ExpenseAccount: "a", PaymentAccount: "b", Amount: 1}}}},
		{"no lines", producers.SalaryBatch{BatchID: "B", Date: payday}},
		{"negative amount", producers.SalaryBatch{BatchID: "B", Date: payday, Lines: []producers.SalaryLine{{ExpenseAccount: "a", PaymentAccount: "b", Amount: -1}}}},
		{"missing payment account", producers.SalaryBatch{BatchID: "B", Date: payday, Lines: []producers.SalaryLine{{ExpenseAccount: "a", Amount: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := producers.SalaryBatchJournal(tt.batch)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCashTransactionJournal_MoneyIn(t *testing.T) {
	req, err := producers.CashTransactionJournal(producers.CashTransaction{
		Kind:        domain.SourceCash,
		Direction:   producers.CashIn,
		VoucherNo:   "BKM-0012",
		Date:        payday,
		CashAccount: "1-1100",
		Description: "Penjualan tunai",
		Items: []producers.CashItem{
			{AccountRef: "4-1000", Amount: 700, Memo: "Penjualan"},
			{AccountRef: "2-3100", Amount: 70, Memo: "PPN keluaran"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRef{Kind: domain.SourceCash, Ref: "BKM-0012"}, req.Source)
	require.Len(t, req.Lines, 3)
	assert.Equal(t, dto.JournalLineInput{AccountRef: "1-1100", Debit: 770, Description: "Penjualan tunai"}, req.Lines[0])
	assert.Equal(t, domain.Amount(700), req.Lines[1].Credit)
	assert.Equal(t, domain.Amount(70), req.Lines[2].Credit)
}

func TestCashTransactionJournal_MoneyOut(t *testing.T) {
	req, err := producers.CashTransactionJournal(producers.CashTransaction{
		Kind:        domain.SourceGiro,
		Direction:   producers.CashOut,
		VoucherNo:   "GR-77",
		Date:        payday,
		CashAccount: "1-1300",
		Items:       []producers.CashItem{{AccountRef: "2-1000", Amount: 2_500}},
	})
	require.NoError(t, err)

	require.Len(t, req.Lines, 2)
	assert.Equal(t, domain.Amount(2_500), req.Lines[0].Debit)
	assert.Equal(t, "1-1300", req.Lines[1].AccountRef)
	assert.Equal(t, domain.Amount(2_500), req.Lines[1].Credit)
	assert.Equal(t, domain.SourceGiro, req.Source.Kind)
}

func TestCashTransactionJournal_Rejects(t *testing.T) {
	valid := producers.CashTransaction{
		Kind: domain.SourceBank, Direction: producers.CashIn, VoucherNo: "BM-1", Date: payday,
		CashAccount: "1-1200", Items: []producers.CashItem{{AccountRef: "4-1000", Amount: 1}},
	}
	tests := []struct {
		name   string
		mutate func(*producers.CashTransaction)
	}{
		{"unknown kind", func(tx *producers.CashTransaction) { tx.Kind = domain.SourceSalaryBatch }},
		{"unknown direction", func(tx *producers.CashTransaction) { tx.Direction = "SIDEWAYS" }},
		{"missing cash account", func(tx *producers.CashTransaction) { tx.CashAccount = "" }},
		{"no items", func(tx *producers.CashTransaction) { tx.Items = nil }},
		{"zero item", func(tx *producers.CashTransaction) { tx.Items = []producers.CashItem{{AccountRef: "4-1000"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			_, err := producers.CashTransactionJournal(tx)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestPurchaseReceiptJournal(t *testing.T) {
	req, err := producers.PurchaseReceiptJournal(producers.PurchaseReceipt{
		ReceiptNo:      "PB-0301",
		Supplier:       "CV Sumber Makmur",
		Date:           payday,
		PayableAccount: "2-1000",
		TaxAccount:     "1-1500",
		TaxAmount:      110,
		Items: []producers.PurchaseItem{
			{AccountRef: "1-1400", Amount: 600, Memo: "Kertas A4"},
			{AccountRef: "5-2100", Amount: 400, Memo: "Tinta"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRef{Kind: domain.SourcePurchaseReceipt, Ref: "PB-0301"}, req.Source)
	assert.Equal(t, "Penerimaan barang PB-0301 dari CV Sumber Makmur", req.Description)
	require.Len(t, req.Lines, 4)
	assert.Equal(t, domain.Amount(110), req.Lines[2].Debit)
	assert.Equal(t, "2-1000", req.Lines[3].AccountRef)
	assert.Equal(t, domain.Amount(1_110), req.Lines[3].Credit)

	debit, credit := totals(req.Lines)
	assert.Equal(t, debit, credit)
}

func TestPurchaseReceiptJournal_TaxNeedsAccount(t *testing.T) {
	_, err := producers.PurchaseReceiptJournal(producers.PurchaseReceipt{
		ReceiptNo: "PB-1", Date: payday, PayableAccount: "2-1000", TaxAmount: 10,
		Items: []producers.PurchaseItem{{AccountRef: "1-1400", Amount: 100}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPurchaseReceiptJournal_NoTaxLineWhenUntaxed(t *testing.T) {
	req, err := producers.PurchaseReceiptJournal(producers.PurchaseReceipt{
		ReceiptNo: "PB-2", Date: payday, PayableAccount: "1-1100",
		Items: []producers.PurchaseItem{{AccountRef: "1-1400", Amount: 100}},
	})
	require.NoError(t, err)
	assert.Len(t, req.Lines, 2)
	assert.Equal(t, "Penerimaan barang PB-2", req.Description)
}
