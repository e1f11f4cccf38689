package repositories

import (
	"context"

	"github.com/SscSPs/bukubesar/internal/core/domain"
)

// PeriodReader defines read operations for closing periods. Period state only
// changes through a UnitOfWork.
type PeriodReader interface {
	// FindPeriod returns the stored period, or apperrors.ErrNotFound if it was never closed.
	FindPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error)

	// ListPeriods returns stored periods of a year, ordered by month.
	ListPeriods(ctx context.Context, year int) ([]domain.ClosingPeriod, error)

	// ListPeriodEvents returns the revision log of a period, oldest first.
	ListPeriodEvents(ctx context.Context, key domain.PeriodKey) ([]domain.PeriodEvent, error)
}
