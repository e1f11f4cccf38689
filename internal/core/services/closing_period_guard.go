package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/platform/metrics"
)

// PeriodEventListener is called after a period transition has committed.
// The event is already persisted in the revision log.
type PeriodEventListener func(ctx context.Context, event domain.PeriodEvent)

// closingPeriodGuard implements the PeriodSvcFacade interface
type closingPeriodGuard struct {
	BaseService
	periodRepo portsrepo.PeriodReader
	uow        portsrepo.UnitOfWork
	listeners  []PeriodEventListener
}

// NewClosingPeriodGuard creates the period lock service.
func NewClosingPeriodGuard(periodRepo portsrepo.PeriodReader, uow portsrepo.UnitOfWork, opts ...ServiceOption) portssvc.PeriodSvcFacade {
	o := buildOptions(opts)
	return &closingPeriodGuard{
		BaseService: newBaseService(o),
		periodRepo:  periodRepo,
		uow:         uow,
		listeners:   o.listeners,
	}
}

var _ portssvc.PeriodSvcFacade = (*closingPeriodGuard)(nil)

func (s *closingPeriodGuard) CanPost(ctx context.Context, date time.Time, caps domain.Capability) (domain.PostingDecision, error) {
	p, err := s.GetPeriod(ctx, domain.PeriodOf(date))
	if err != nil {
		return domain.PostingDecision{}, err
	}
	return p.CanPost(caps), nil
}

func (s *closingPeriodGuard) GetPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error) {
	if !key.Valid() {
		return nil, apperrors.NewValidationError("invalid period %s", key)
	}
	p, err := s.periodRepo.FindPeriod(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			open := domain.NewOpenPeriod(key)
			return &open, nil
		}
		s.LogError(ctx, err, "Failed to load period", slog.String("period", key.String()))
		return nil, fmt.Errorf("failed to load period %s: %w", key, err)
	}
	return p, nil
}

func (s *closingPeriodGuard) ListPeriods(ctx context.Context, year int) ([]domain.ClosingPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

func (s *closingPeriodGuard) ListPeriodEvents(ctx context.Context, key domain.PeriodKey) ([]domain.PeriodEvent, error) {
	events, err := s.periodRepo.ListPeriodEvents(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list period events: %w", err)
	}
	return events, nil
}

func (s *closingPeriodGuard) SoftClose(ctx context.Context, key domain.PeriodKey, excludedJournalIDs []string, actor string) (*domain.ClosingPeriod, error) {
	return s.transition(ctx, key, domain.ActionSoftClose, func(ctx context.Context, tx portsrepo.LedgerTx, p *domain.ClosingPeriod) (domain.PeriodEvent, error) {
		drafts, err := tx.CountDrafts(ctx, key, excludedJournalIDs)
		if err != nil {
			return domain.PeriodEvent{}, err
		}
		if drafts > 0 {
			return domain.PeriodEvent{}, fmt.Errorf("%w: period %s still has %d unposted draft journal(s)", apperrors.ErrConflict, key, drafts)
		}
		return p.SoftClose(s.newID(), actor, s.now())
	})
}

func (s *closingPeriodGuard) HardClose(ctx context.Context, key domain.PeriodKey, actor string) (*domain.ClosingPeriod, error) {
	return s.transition(ctx, key, domain.ActionHardClose, func(_ context.Context, _ portsrepo.LedgerTx, p *domain.ClosingPeriod) (domain.PeriodEvent, error) {
		return p.HardClose(s.newID(), actor, s.now())
	})
}

func (s *closingPeriodGuard) Reopen(ctx context.Context, key domain.PeriodKey, reason string, actor string, caps domain.Capability) (*domain.ClosingPeriod, error) {
	return s.transition(ctx, key, domain.ActionReopen, func(_ context.Context, _ portsrepo.LedgerTx, p *domain.ClosingPeriod) (domain.PeriodEvent, error) {
		return p.Reopen(s.newID(), actor, reason, caps, s.now())
	})
}

type periodStep func(ctx context.Context, tx portsrepo.LedgerTx, p *domain.ClosingPeriod) (domain.PeriodEvent, error)

// transition locks the period, applies step and stores the new state together
// with its revision-log entry. Listeners run only after commit.
func (s *closingPeriodGuard) transition(ctx context.Context, key domain.PeriodKey, action domain.PeriodAction, step periodStep) (*domain.ClosingPeriod, error) {
	if !key.Valid() {
		return nil, apperrors.NewValidationError("invalid period %s", key)
	}
	logger := s.GetLogger(ctx).With(slog.String("period", key.String()), slog.String("action", string(action)))

	var result domain.ClosingPeriod
	var event domain.PeriodEvent
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		p, err := tx.LockPeriod(ctx, key)
		if err != nil {
			return err
		}
		if event, err = step(ctx, tx, p); err != nil {
			return err
		}
		if err := tx.SavePeriod(ctx, *p); err != nil {
			return err
		}
		if err := tx.AppendPeriodEvent(ctx, event); err != nil {
			return err
		}
		result = *p
		return nil
	})
	if err != nil {
		logger.Warn("Period transition rejected", slog.String("error", err.Error()))
		return nil, err
	}

	metrics.IncPeriodTransition(string(action))
	logger.Info("Period transition committed",
		slog.String("from", string(event.From)),
		slog.String("to", string(event.To)),
		slog.String("actor", event.Actor))
	for _, l := range s.listeners {
		l(ctx, event)
	}
	return &result, nil
}
