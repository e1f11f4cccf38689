package services

import (
	"context"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// Resolve finds an account by ID or, failing that, by code.
	Resolve(ctx context.Context, codeOrID string) (*domain.Account, error)

	// IsActive reports whether the account accepts postings.
	IsActive(account domain.Account) bool

	// ResolveLines resolves the account of every line, failing on the first
	// unknown or inactive one with an UnknownAccountError naming its index.
	// The map is keyed by the account reference as it appears on the lines.
	ResolveLines(ctx context.Context, lines []domain.JournalLine) (map[string]domain.Account, error)

	// ListAccounts returns the chart ordered by code.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount adds an account; codes are unique.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)

	// UpdateAccount edits an account that no posted line references yet.
	UpdateAccount(ctx context.Context, codeOrID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)

	// SetAccountActive toggles whether the account accepts postings.
	SetAccountActive(ctx context.Context, codeOrID string, active bool, actor string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
