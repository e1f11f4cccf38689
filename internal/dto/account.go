package dto

import (
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code          string              `json:"code" binding:"required,accountcode"`
	Name          string              `json:"name" binding:"required"`
	AccountType   domain.AccountType  `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance *domain.BalanceSide `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // Optional, defaults from the type
	Description   string              `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Code          *string             `json:"code" binding:"omitempty,accountcode"`
	Name          *string             `json:"name"`
	AccountType   *domain.AccountType `json:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance *domain.BalanceSide `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"`
	Description   *string             `json:"description"`
}

// SetAccountActiveRequest toggles whether an account accepts postings.
type SetAccountActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          string             `json:"code"`
	ParentCode    string             `json:"parentCode,omitempty"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	NormalBalance domain.BalanceSide `json:"normalBalance"`
	Description   string             `json:"description"`
	IsActive      bool               `json:"isActive"`
	Balance       decimal.Decimal    `json:"balance"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account, scale int32) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		ParentCode:    acc.ParentCode(),
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalBalance: acc.NormalBalance,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		Balance:       acc.Balance.Decimal(scale),
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain.Account.
func ToAccountResponses(accounts []domain.Account, scale int32) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i], scale)
	}
	return out
}

// ListAccountsParams defines the query parameters for listing the chart of accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// ListAccountsResponse wraps the chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
