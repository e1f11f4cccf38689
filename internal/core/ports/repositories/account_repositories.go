package repositories

import (
	"context"

	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts
type AccountReader interface {
	// FindAccountByID retrieves an account by its ID. Returns apperrors.ErrNotFound when absent.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique code. Returns apperrors.ErrNotFound when absent.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves several accounts at once; IDs that do not exist are left out of the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts ordered by code.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)

	// IsAccountReferenced reports whether any posted or reversed journal has a line on the account.
	IsAccountReferenced(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for the chart of accounts
type AccountWriter interface {
	// SaveAccount inserts a new account. Returns apperrors.ErrDuplicate when the code is taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount overwrites the descriptive fields and activation flag of an account.
	// The running balance is never written through this method.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
