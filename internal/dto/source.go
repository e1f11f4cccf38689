package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SalaryLinePayload is one payroll row as received over HTTP.
type SalaryLinePayload struct {
	Employee       string          `json:"employee"`
	ExpenseAccount string          `json:"expenseAccount" binding:"required"`
	PaymentAccount string          `json:"paymentAccount" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
}

// SalaryBatchPayload is the HTTP body for posting a payroll run.
type SalaryBatchPayload struct {
	BatchID     string              `json:"batchID" binding:"required"`
	PeriodLabel string              `json:"periodLabel"`
	Date        string              `json:"date" binding:"required,datetime=2006-01-02"`
	Lines       []SalaryLinePayload `json:"lines" binding:"required,min=1,dive"`
}

// SourceItemPayload is a counter-account line of a voucher or receipt.
type SourceItemPayload struct {
	Account string          `json:"account" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
	Memo    string          `json:"memo"`
}

// CashTransactionPayload is the HTTP body for posting a cash, bank or giro voucher.
type CashTransactionPayload struct {
	Kind        string              `json:"kind" binding:"required,oneof=CASH BANK GIRO"`
	Direction   string              `json:"direction" binding:"required,oneof=IN OUT"`
	VoucherNo   string              `json:"voucherNo" binding:"required"`
	Date        string              `json:"date" binding:"required,datetime=2006-01-02"`
	CashAccount string              `json:"cashAccount" binding:"required"`
	Description string              `json:"description" binding:"max=500"`
	Items       []SourceItemPayload `json:"items" binding:"required,min=1,dive"`
}

// PurchaseReceiptPayload is the HTTP body for posting a goods receipt.
type PurchaseReceiptPayload struct {
	ReceiptNo      string              `json:"receiptNo" binding:"required"`
	Supplier       string              `json:"supplier"`
	Date           string              `json:"date" binding:"required,datetime=2006-01-02"`
	PayableAccount string              `json:"payableAccount" binding:"required"`
	TaxAccount     string              `json:"taxAccount"`
	TaxAmount      decimal.Decimal     `json:"taxAmount"`
	Items          []SourceItemPayload `json:"items" binding:"required,min=1,dive"`
}

// ParseDate parses a YYYY-MM-DD payload date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date %q", s)
	}
	return d, nil
}

// ParseAmount converts a decimal payload amount to minor units; field names it in errors.
func ParseAmount(d decimal.Decimal, scale int32, field string) (domain.Amount, error) {
	a, err := domain.AmountFromDecimal(d, scale)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, field, err.Error())
	}
	return a, nil
}
