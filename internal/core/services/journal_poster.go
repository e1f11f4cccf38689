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
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/SscSPs/bukubesar/internal/platform/metrics"
)

const (
	defaultMaxPostAttempts = 3
	defaultListLimit       = 50
)

// journalPoster implements the JournalSvcFacade interface
type journalPoster struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	uow         portsrepo.UnitOfWork
	accounts    portssvc.AccountReaderSvc
	periods     portssvc.PeriodReaderSvc
	maxAttempts int
}

// NewJournalPoster creates the journal service: draft maintenance, posting and reversal.
func NewJournalPoster(
	journalRepo portsrepo.JournalRepositoryFacade,
	uow portsrepo.UnitOfWork,
	accounts portssvc.AccountReaderSvc,
	periods portssvc.PeriodReaderSvc,
	opts ...ServiceOption,
) portssvc.JournalSvcFacade {
	o := buildOptions(opts)
	return &journalPoster{
		BaseService: newBaseService(o),
		journalRepo: journalRepo,
		uow:         uow,
		accounts:    accounts,
		periods:     periods,
		maxAttempts: o.maxAttempts,
	}
}

var _ portssvc.JournalSvcFacade = (*journalPoster)(nil)

func (s *journalPoster) GetJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("journal " + journalID)
		}
		s.LogError(ctx, err, "Failed to load journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to load journal %s: %w", journalID, err)
	}
	return journal, nil
}

func (s *journalPoster) ListJournals(ctx context.Context, params dto.ListJournalsParams) ([]domain.Journal, *string, error) {
	filter := portsrepo.ListJournalsFilter{Limit: params.Limit, NextToken: params.NextToken}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if params.Status != "" {
		status := domain.JournalStatus(params.Status)
		switch status {
		case domain.Draft, domain.Posted, domain.Reversed:
		default:
			return nil, nil, apperrors.NewValidationError("unknown journal status %q", params.Status)
		}
		filter.Status = &status
	}
	if params.Period != "" {
		key, err := domain.ParsePeriodKey(params.Period)
		if err != nil {
			return nil, nil, err
		}
		filter.Period = &key
	}

	journals, next, err := s.journalRepo.ListJournals(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals")
		return nil, nil, fmt.Errorf("failed to list journals: %w", err)
	}
	return journals, next, nil
}

func (s *journalPoster) CreateDraft(ctx context.Context, req dto.CreateJournalRequest, actor string) (*domain.Journal, error) {
	lines, err := s.toLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}
	journal := domain.NewDraftJournal(s.newID(), s.journalDate(req.Date), req.Description, req.Source, lines, actor, s.now())

	if err := s.journalRepo.SaveDraft(ctx, journal); err != nil {
		s.LogError(ctx, err, "Failed to save draft journal")
		return nil, fmt.Errorf("failed to save draft journal: %w", err)
	}

	s.LogInfo(ctx, "Draft journal created",
		slog.String("journal_id", journal.JournalID),
		slog.String("source", journal.Source.Kind),
		slog.Int("lines", len(journal.Lines)))
	return &journal, nil
}

func (s *journalPoster) UpdateDraft(ctx context.Context, journalID string, req dto.UpdateJournalRequest, actor string) (*domain.Journal, error) {
	journal, err := s.GetJournal(ctx, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.toLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	expected := journal.Version
	if err := journal.ReviseDraft(s.journalDate(req.Date), req.Description, lines, actor, s.now()); err != nil {
		return nil, err
	}
	if err := s.journalRepo.UpdateDraft(ctx, *journal, expected); err != nil {
		s.LogWarn(ctx, err, "Failed to update draft journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update draft journal: %w", err)
	}
	return journal, nil
}

func (s *journalPoster) DeleteDraft(ctx context.Context, journalID string, actor string) error {
	journal, err := s.GetJournal(ctx, journalID)
	if err != nil {
		return err
	}
	if journal.Status != domain.Draft {
		return &apperrors.TransitionError{Entity: "journal " + journalID, From: string(journal.Status), To: "DELETED", Reason: "posted journals are reversed, never deleted"}
	}
	if err := s.journalRepo.DeleteDraft(ctx, journalID); err != nil {
		return fmt.Errorf("failed to delete draft journal: %w", err)
	}
	s.LogInfo(ctx, "Draft journal deleted", slog.String("journal_id", journalID), slog.String("actor", actor))
	return nil
}

func (s *journalPoster) BuildAndPost(ctx context.Context, req dto.CreateJournalRequest, actor string, caps domain.Capability) (*domain.Journal, error) {
	draft, err := s.CreateDraft(ctx, req, actor)
	if err != nil {
		return nil, err
	}
	return s.Post(ctx, draft.JournalID, actor, caps)
}

// Post runs the posting pipeline on a draft. On any rejection the draft and
// the ledger are left exactly as they were.
func (s *journalPoster) Post(ctx context.Context, journalID string, actor string, caps domain.Capability) (*domain.Journal, error) {
	start := time.Now()
	posted, err := s.post(ctx, journalID, actor, caps)
	metrics.ObservePost(err, time.Since(start))
	if err != nil {
		s.LogWarn(ctx, err, "Journal post rejected", slog.String("journal_id", journalID), slog.String("result", metrics.ResultLabel(err)))
		return nil, err
	}
	s.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", posted.JournalID),
		slog.String("number", posted.DisplayNumber()),
		slog.String("actor", actor))
	return posted, nil
}

func (s *journalPoster) post(ctx context.Context, journalID string, actor string, caps domain.Capability) (*domain.Journal, error) {
	journal, err := s.GetJournal(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, &apperrors.TransitionError{Entity: "journal " + journalID, From: string(journal.Status), To: string(domain.Posted), Reason: "only drafts can be posted"}
	}

	if err := s.validate(ctx, journal, caps); err != nil {
		return nil, err
	}
	key := journal.Period()

	var result domain.Journal
	err = s.commit(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		locked, err := tx.LockJournal(ctx, journalID)
		if err != nil {
			return err
		}
		if locked.Status != domain.Draft {
			return &apperrors.TransitionError{Entity: "journal " + journalID, From: string(locked.Status), To: string(domain.Posted), Reason: "journal was posted concurrently"}
		}
		if locked.Version != journal.Version {
			return fmt.Errorf("%w: journal %s was edited while posting", apperrors.ErrConflict, journalID)
		}
		if err := s.checkPeriod(ctx, tx, key, caps); err != nil {
			return err
		}
		changes, err := s.lockAccounts(ctx, tx, journal.Lines)
		if err != nil {
			return err
		}
		number, err := tx.NextJournalNumber(ctx, key)
		if err != nil {
			return err
		}

		posted := *journal
		posted.Lines = append([]domain.JournalLine(nil), journal.Lines...)
		now := s.now()
		if err := posted.MarkPosted(number, actor, now); err != nil {
			return err
		}
		if err := tx.UpdatePostedJournal(ctx, posted); err != nil {
			return err
		}
		if err := tx.ApplyBalanceChanges(ctx, changes, actor, now); err != nil {
			return err
		}
		result = posted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Reverse posts a journal with every line's debit and credit swapped and flips
// the original to REVERSED in the same transaction.
func (s *journalPoster) Reverse(ctx context.Context, journalID string, req dto.ReverseJournalRequest, actor string, caps domain.Capability) (*domain.Journal, error) {
	reversal, err := s.reverse(ctx, journalID, req, actor, caps)
	metrics.ObserveReversal(err)
	if err != nil {
		s.LogWarn(ctx, err, "Journal reversal rejected", slog.String("journal_id", journalID))
		return nil, err
	}
	s.LogInfo(ctx, "Journal reversed",
		slog.String("journal_id", journalID),
		slog.String("reversal_id", reversal.JournalID),
		slog.String("number", reversal.DisplayNumber()))
	return reversal, nil
}

func (s *journalPoster) reverse(ctx context.Context, journalID string, req dto.ReverseJournalRequest, actor string, caps domain.Capability) (*domain.Journal, error) {
	original, err := s.GetJournal(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if err := original.CheckReversible(); err != nil {
		return nil, err
	}

	date := s.today()
	if req.Date != nil {
		date = domain.DateOf(*req.Date, nil)
	}
	draft := original.ReversalDraft(s.newID(), date, req.Description, actor, s.now())

	if err := s.validate(ctx, &draft, caps); err != nil {
		return nil, err
	}
	key := draft.Period()

	var result domain.Journal
	err = s.commit(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		locked, err := tx.LockJournal(ctx, journalID)
		if err != nil {
			return err
		}
		if err := locked.CheckReversible(); err != nil {
			return err
		}
		if err := s.checkPeriod(ctx, tx, key, caps); err != nil {
			return err
		}
		changes, err := s.lockAccounts(ctx, tx, draft.Lines)
		if err != nil {
			return err
		}
		number, err := tx.NextJournalNumber(ctx, key)
		if err != nil {
			return err
		}

		now := s.now()
		reversal := draft
		reversal.Lines = append([]domain.JournalLine(nil), draft.Lines...)
		if err := reversal.MarkPosted(number, actor, now); err != nil {
			return err
		}
		if err := tx.InsertJournal(ctx, reversal); err != nil {
			return err
		}
		if err := locked.MarkReversed(reversal.JournalID, actor, now); err != nil {
			return err
		}
		if err := tx.UpdatePostedJournal(ctx, *locked); err != nil {
			return err
		}
		if err := tx.ApplyBalanceChanges(ctx, changes, actor, now); err != nil {
			return err
		}
		result = reversal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// validate runs the pure checks in order: structure, accounts, balance, period.
// It rewrites each line's account reference to the resolved account ID.
func (s *journalPoster) validate(ctx context.Context, journal *domain.Journal, caps domain.Capability) error {
	if err := domain.ValidateLines(journal.Lines); err != nil {
		return err
	}

	byRef, err := s.accounts.ResolveLines(ctx, journal.Lines)
	if err != nil {
		return err
	}
	for i := range journal.Lines {
		acc := byRef[journal.Lines[i].AccountID]
		journal.Lines[i].AccountID = acc.AccountID
		journal.Lines[i].AccountCode = acc.Code
	}

	if err := domain.CheckBalance(journal.Lines); err != nil {
		return err
	}

	decision, err := s.periods.CanPost(ctx, journal.JournalDate, caps)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decision.LockedError(journal.Period())
	}
	return nil
}

// lockAccounts re-reads the lines' accounts under lock and derives the balance
// changes from that read. An account removed or deactivated since validation
// rejects the journal.
func (s *journalPoster) lockAccounts(ctx context.Context, tx portsrepo.LedgerTx, lines []domain.JournalLine) (map[string]domain.Amount, error) {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.AccountID
	}
	accounts, err := tx.LockAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, &apperrors.UnknownAccountError{Index: i, Ref: l.AccountCode}
		}
		if !s.accounts.IsActive(acc) {
			return nil, &apperrors.UnknownAccountError{Index: i, Ref: acc.Code, Inactive: true}
		}
	}
	return domain.BalanceChanges(lines, accounts), nil
}

// checkPeriod repeats the period check under the period lock, so a close that
// raced with validation still wins.
func (s *journalPoster) checkPeriod(ctx context.Context, tx portsrepo.LedgerTx, key domain.PeriodKey, caps domain.Capability) error {
	period, err := tx.LockPeriod(ctx, key)
	if err != nil {
		return err
	}
	if decision := period.CanPost(caps); !decision.Allowed {
		return decision.LockedError(key)
	}
	return nil
}

// commit runs fn in a unit of work, retrying numbering conflicts up to maxAttempts in total.
func (s *journalPoster) commit(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.uow.WithinTx(ctx, fn)
		if err == nil || !apperrors.IsRetryable(err) {
			return err
		}
		if attempt < s.maxAttempts {
			metrics.IncNumberingRetry()
			s.LogDebug(ctx, "Retrying post after numbering conflict", slog.Int("attempt", attempt))
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

func (s *journalPoster) journalDate(date time.Time) time.Time {
	if date.IsZero() {
		return s.today()
	}
	return domain.DateOf(date, nil)
}

// toLines converts request lines, replacing account codes with IDs where they
// resolve. Unknown references are kept as entered; posting rejects them.
func (s *journalPoster) toLines(ctx context.Context, inputs []dto.JournalLineInput) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, len(inputs))
	for i, in := range inputs {
		line := domain.JournalLine{
			AccountID:   in.AccountRef,
			Debit:       in.Debit,
			Credit:      in.Credit,
			Description: in.Description,
		}
		if in.AccountRef != "" {
			acc, err := s.accounts.Resolve(ctx, in.AccountRef)
			switch {
			case err == nil:
				line.AccountID = acc.AccountID
				line.AccountCode = acc.Code
			case !errors.Is(err, apperrors.ErrNotFound):
				return nil, err
			}
		}
		lines[i] = line
	}
	return lines, nil
}
