package repositories

import (
	"context"

	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// ListJournalsFilter narrows a journal listing.
type ListJournalsFilter struct {
	Status    *domain.JournalStatus
	Period    *domain.PeriodKey
	Limit     int
	NextToken *string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal and its lines.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves journals newest first using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, filter ListJournalsFilter) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations on draft journals. Posted and
// reversed journals only change through a UnitOfWork.
type JournalWriter interface {
	// SaveDraft inserts a new draft journal with its lines.
	SaveDraft(ctx context.Context, journal domain.Journal) error

	// UpdateDraft replaces a draft and its lines when the stored row is still a
	// draft at expectedVersion; otherwise it returns apperrors.ErrConflict.
	UpdateDraft(ctx context.Context, journal domain.Journal, expectedVersion int64) error

	// DeleteDraft removes a draft. Non-draft journals are never deleted.
	DeleteDraft(ctx context.Context, journalID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
