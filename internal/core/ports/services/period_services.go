package services

import (
	"context"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// PeriodReaderSvc defines read operations for closing periods
type PeriodReaderSvc interface {
	// CanPost decides whether a journal dated on date may be posted by a caller holding caps.
	CanPost(ctx context.Context, date time.Time, caps domain.Capability) (domain.PostingDecision, error)

	// GetPeriod returns the state of a period; never-closed periods come back OPEN.
	GetPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error)

	// ListPeriods returns the stored periods of a year.
	ListPeriods(ctx context.Context, year int) ([]domain.ClosingPeriod, error)

	// ListPeriodEvents returns the revision log of a period.
	ListPeriodEvents(ctx context.Context, key domain.PeriodKey) ([]domain.PeriodEvent, error)
}

// PeriodCloserSvc drives the period state machine.
type PeriodCloserSvc interface {
	// SoftClose moves an open period to SOFT_CLOSED once every draft in it is posted or excluded.
	SoftClose(ctx context.Context, key domain.PeriodKey, excludedJournalIDs []string, actor string) (*domain.ClosingPeriod, error)

	// HardClose moves a soft-closed period to HARD_CLOSED.
	HardClose(ctx context.Context, key domain.PeriodKey, actor string) (*domain.ClosingPeriod, error)

	// Reopen moves a closed period back to OPEN and records the reason.
	Reopen(ctx context.Context, key domain.PeriodKey, reason string, actor string, caps domain.Capability) (*domain.ClosingPeriod, error)
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodCloserSvc
}
