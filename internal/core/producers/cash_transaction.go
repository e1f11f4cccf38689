package producers

import (
	"fmt"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/dto"
)

// CashDirection tells whether money enters or leaves the cash account.
type CashDirection string

const (
	CashIn  CashDirection = "IN"
	CashOut CashDirection = "OUT"
)

// CashItem is one counter-account line of a cash, bank or giro voucher.
type CashItem struct {
	AccountRef string
	Amount     domain.Amount
	Memo       string
}

// CashTransaction is a cash, bank or giro voucher.
type CashTransaction struct {
	Kind        string // domain.SourceCash, domain.SourceBank or domain.SourceGiro
	Direction   CashDirection
	VoucherNo   string
	Date        time.Time
	CashAccount string
	Description string
	Items       []CashItem
}

// CashTransactionJournal builds the voucher journal: for money in, the cash
// account is debited with the total and every item credited; money out is the
// mirror image.
func CashTransactionJournal(tx CashTransaction) (dto.CreateJournalRequest, error) {
	switch tx.Kind {
	case domain.SourceCash, domain.SourceBank, domain.SourceGiro:
	default:
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("unknown cash transaction kind %q", tx.Kind)
	}
	if tx.Direction != CashIn && tx.Direction != CashOut {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("unknown cash direction %q", tx.Direction)
	}
	if tx.CashAccount == "" {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("cash account is required")
	}
	if err := requireDate(tx.Date); err != nil {
		return dto.CreateJournalRequest{}, err
	}
	if len(tx.Items) == 0 {
		return dto.CreateJournalRequest{}, apperrors.NewValidationError("voucher %s has no items", tx.VoucherNo)
	}

	items := newAccumulator()
	lines := make([]dto.JournalLineInput, 0, len(tx.Items)+1)
	for i, it := range tx.Items {
		if it.Amount <= 0 {
			return dto.CreateJournalRequest{}, fmt.Errorf("voucher item %d: %w", i, apperrors.NewValidationError("amount must be positive"))
		}
		if err := items.add(it.AccountRef, it.Amount); err != nil {
			return dto.CreateJournalRequest{}, fmt.Errorf("voucher item %d: %w", i, err)
		}
		line := dto.JournalLineInput{AccountRef: it.AccountRef, Description: it.Memo}
		if tx.Direction == CashIn {
			line.Credit = it.Amount
		} else {
			line.Debit = it.Amount
		}
		lines = append(lines, line)
	}
	total, err := items.total()
	if err != nil {
		return dto.CreateJournalRequest{}, err
	}

	cash := dto.JournalLineInput{AccountRef: tx.CashAccount, Description: tx.Description}
	if tx.Direction == CashIn {
		cash.Debit = total
		lines = append([]dto.JournalLineInput{cash}, lines...)
	} else {
		cash.Credit = total
		lines = append(lines, cash)
	}

	return dto.CreateJournalRequest{
		Date:        tx.Date,
		Description: tx.Description,
		Source:      domain.SourceRef{Kind: tx.Kind, Ref: tx.VoucherNo},
		Lines:       lines,
	}, nil
}
