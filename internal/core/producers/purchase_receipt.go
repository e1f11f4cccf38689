package producers

import (
	"fmt"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/dto"
)

// PurchaseItem is one received line of a purchase, charged to an inventory or
// expense account.
type PurchaseItem struct {
	AccountRef string
	Amount     domain.Amount
	Memo       string
}

// PurchaseReceipt is a confirmed goods receipt.
type PurchaseReceipt struct {
	ReceiptNo      string
	Supplier       string
	Date           time.Time
	PayableAccount string // Utang Usaha, or Kas for cash purchases
	TaxAccount     string // PPN Masukan; required when TaxAmount is set
	TaxAmount      domain.Amount
	Items          []PurchaseItem
}

// PurchaseReceiptJournal debits each item and the input tax, and credits the
// payable account with the gross total.
func PurchaseReceiptJournal(r PurchaseReceipt) (dto.CreateJournalRequest, error) {
	if r.ReceiptNo == "" {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("receipt number is required")
	}
	if r.PayableAccount == "" {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("payable account is required")
	}
	if err := requireDate(r.Date); err != nil {
		return dto.CreateJournalRequest{}, err
	}
	if len(r.Items) == 0 {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("receipt %s has no items", r.ReceiptNo)
	}
	if r.TaxAmount < 0 {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("tax amount must not be negative")
	}
	if r.TaxAmount > 0 && r.TaxAccount == "" {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("tax account is required when tax is charged")
	}

	gross := newAccumulator()
	lines := make([]dto.JournalLineInput, 0, len(r.Items)+2)
	for i, it := range r.Items {
		if it.Amount <= 0 {
			return dto.CreateJournalRequest{}, fmt.Errorf("receipt item %d: %w", i, apperrors.NewValidationError("amount must be positive"))
		}
		if err := gross.add(it.AccountRef, it.Amount); err != nil {
			return dto.CreateJournalRequest{}, fmt.Errorf("receipt item %d: %w", i, err)
		}
		lines = append(lines, dto.JournalLineInput{AccountRef: it.AccountRef, Debit: it.Amount, Description: it.Memo})
	}
	if r.TaxAmount > 0 {
		if err := gross.add(r.TaxAccount, r.TaxAmount); err != nil {
			return dto.CreateJournalRequest{}, err
		}
		lines = append(lines, dto.JournalLineInput{AccountRef: r.TaxAccount, Debit: r.TaxAmount, Description: "PPN masukan " + r.ReceiptNo})
	}
	total, err := gross.total()
	if err != nil {
		return dto.CreateJournalRequest{}, err
	}

	description := "Penerimaan barang " + r.ReceiptNo
	if r.Supplier != "" {
		description += " dari " + r.Supplier
	}
	lines = append(lines, dto.JournalLineInput{AccountRef: r.PayableAccount, Credit: total, Description: description})

	return dto.CreateJournalRequest{
		Date:        r.Date,
		Description: description,
		Source:      domain.SourceRef{Kind: domain.SourcePurchaseReceipt, Ref: r.ReceiptNo},
		Lines:       lines,
	}, nil
}
