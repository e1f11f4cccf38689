package services

import (
	"context"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournal retrieves a journal with its lines.
	GetJournal(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a page of journals, newest first.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) ([]domain.Journal, *string, error)
}

// JournalDraftSvc maintains draft journals. Drafts carry no ledger effect.
type JournalDraftSvc interface {
	// CreateDraft builds a draft journal. Drafts may be unbalanced.
	CreateDraft(ctx context.Context, req dto.CreateJournalRequest, actor string) (*domain.Journal, error)

	// UpdateDraft replaces the date, description and lines of a draft.
	UpdateDraft(ctx context.Context, journalID string, req dto.UpdateJournalRequest, actor string) (*domain.Journal, error)

	// DeleteDraft removes a draft. Posted journals can only be reversed.
	DeleteDraft(ctx context.Context, journalID string, actor string) error
}

// JournalPosterSvc moves journals into the ledger.
type JournalPosterSvc interface {
	// Post validates a draft and commits it to the ledger with the next period number.
	Post(ctx context.Context, journalID string, actor string, caps domain.Capability) (*domain.Journal, error)

	// BuildAndPost creates a draft and posts it in one call. A draft that fails
	// validation is kept so it can be corrected.
	BuildAndPost(ctx context.Context, req dto.CreateJournalRequest, actor string, caps domain.Capability) (*domain.Journal, error)

	// Reverse posts the mirror image of a posted journal and marks it REVERSED.
	Reverse(ctx context.Context, journalID string, req dto.ReverseJournalRequest, actor string, caps domain.Capability) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalDraftSvc
	JournalPosterSvc
}
