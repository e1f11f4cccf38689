package domain

import (
	"regexp"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide is the side (debit or credit) on which an account normally grows.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

var accountCodePattern = regexp.MustCompile(`^[0-9A-Za-z]+([.\-][0-9A-Za-z]+)*$`)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance returns the default normal balance for the type.
func (t AccountType) NormalBalance() BalanceSide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// Valid reports whether s is DEBIT or CREDIT.
func (s BalanceSide) Valid() bool {
	return s == DebitSide || s == CreditSide
}

// ValidAccountCode reports whether code is a hierarchical account code such as "1.1.01" or "4-100".
func ValidAccountCode(code string) bool {
	return accountCodePattern.MatchString(code)
}

// Account represents an entry of the chart of accounts.
type Account struct {
	AccountID     string      `json:"accountID"`     // Primary Key (UUID)
	Code          string      `json:"code"`          // Unique hierarchical code, e.g. "1.1.01"
	Name          string      `json:"name"`          // Display name, e.g. "Kas"
	AccountType   AccountType `json:"accountType"`   // ASSET, LIABILITY, etc.
	NormalBalance BalanceSide `json:"normalBalance"` // Usually derived from AccountType; contra accounts flip it
	Description   string      `json:"description"`
	IsActive      bool        `json:"isActive"` // Inactive accounts reject postings
	Balance       Amount      `json:"balance"`  // Running balance in normal-balance terms, maintained by posting
	AuditFields
}

// ParentCode returns the code one level up the hierarchy, or "" for a root account.
func (a Account) ParentCode() string {
	idx := strings.LastIndexAny(a.Code, ".-")
	if idx <= 0 {
		return ""
	}
	return a.Code[:idx]
}

// SignedAmount returns the effect of a debit/credit pair on the account's
// balance, expressed in its normal-balance terms.
func (a Account) SignedAmount(debit, credit Amount) Amount {
	if a.NormalBalance == CreditSide {
		return credit - debit
	}
	return debit - credit
}
