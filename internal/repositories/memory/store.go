package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
	"github.com/SscSPs/bukubesar/internal/utils/pagination"
)

// Store keeps the whole ledger in process memory. Readers see committed state
// only; a unit of work stages its writes and publishes them at commit.
type Store struct {
	mu sync.RWMutex

	accounts     map[string]domain.Account
	accountCodes map[string]string // code -> account ID
	journals     map[string]domain.Journal
	periods      map[domain.PeriodKey]domain.ClosingPeriod
	events       map[domain.PeriodKey][]domain.PeriodEvent
	counters     map[domain.PeriodKey]int64

	journalLocks *keyedLocks[string]
	periodLocks  *keyedLocks[domain.PeriodKey]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		accountCodes: make(map[string]string),
		journals:     make(map[string]domain.Journal),
		periods:      make(map[domain.PeriodKey]domain.ClosingPeriod),
		events:       make(map[domain.PeriodKey][]domain.PeriodEvent),
		counters:     make(map[domain.PeriodKey]int64),
		journalLocks: newKeyedLocks[string](),
		periodLocks:  newKeyedLocks[domain.PeriodKey](),
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: s,
		JournalRepo: s,
		PeriodRepo:  s,
		LedgerRepo:  s,
		UnitOfWork:  s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
	_ portsrepo.PeriodReader            = (*Store)(nil)
	_ portsrepo.LedgerReader            = (*Store)(nil)
	_ portsrepo.UnitOfWork              = (*Store)(nil)
)

// --- Accounts ---

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.accountCodes[code]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.FindAccountByID(ctx, id)
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			result[id] = acc
		}
	}
	return result, nil
}

func (s *Store) ListAccounts(_ context.Context, includeInactive bool) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listAccounts(includeInactive), nil
}

// listAccounts returns accounts ordered by code. The caller holds s.mu.
func (s *Store) listAccounts(includeInactive bool) []domain.Account {
	result := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if acc.IsActive || includeInactive {
			result = append(result, acc)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

func (s *Store) IsAccountReferenced(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, j := range s.journals {
		if j.Status == domain.Draft {
			continue
		}
		for _, l := range j.Lines {
			if l.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accountCodes[account.Code]; exists {
		return apperrors.ErrDuplicate
	}
	if _, exists := s.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	s.accounts[account.AccountID] = account
	s.accountCodes[account.Code] = account.AccountID
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if owner, taken := s.accountCodes[account.Code]; taken && owner != account.AccountID {
		return apperrors.ErrDuplicate
	}
	delete(s.accountCodes, stored.Code)
	account.Balance = stored.Balance
	s.accounts[account.AccountID] = account
	s.accountCodes[account.Code] = account.AccountID
	return nil
}

// --- Journals ---

func (s *Store) FindJournalByID(_ context.Context, journalID string) (*domain.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.journals[journalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	j = cloneJournal(j)
	return &j, nil
}

func (s *Store) ListJournals(_ context.Context, filter portsrepo.ListJournalsFilter) ([]domain.Journal, *string, error) {
	var cursor *pagination.JournalCursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, err
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := make([]domain.Journal, 0)
	for _, j := range s.journals {
		if filter.Status != nil && j.Status != *filter.Status {
			continue
		}
		if filter.Period != nil && j.Period() != *filter.Period {
			continue
		}
		if cursor != nil && !cursor.After(j.JournalDate, j.CreatedAt, j.JournalID) {
			continue
		}
		matched = append(matched, cloneJournal(j))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, k int) bool {
		a, b := matched[i], matched[k]
		c := pagination.JournalCursor{JournalDate: a.JournalDate, CreatedAt: a.CreatedAt, JournalID: a.JournalID}
		return c.After(b.JournalDate, b.CreatedAt, b.JournalID)
	})

	if filter.Limit <= 0 || len(matched) <= filter.Limit {
		return matched, nil, nil
	}
	page := matched[:filter.Limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(pagination.JournalCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID})
	return page, &token, nil
}

func (s *Store) SaveDraft(_ context.Context, journal domain.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.journals[journal.JournalID]; exists {
		return apperrors.ErrDuplicate
	}
	s.journals[journal.JournalID] = cloneJournal(journal)
	return nil
}

func (s *Store) UpdateDraft(_ context.Context, journal domain.Journal, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.journals[journal.JournalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Status != domain.Draft || stored.Version != expectedVersion {
		return fmt.Errorf("%w: journal %s changed since it was read", apperrors.ErrConflict, journal.JournalID)
	}
	s.journals[journal.JournalID] = cloneJournal(journal)
	return nil
}

func (s *Store) DeleteDraft(_ context.Context, journalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.journals[journalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if stored.Status != domain.Draft {
		return fmt.Errorf("%w: journal %s is no longer a draft", apperrors.ErrConflict, journalID)
	}
	delete(s.journals, journalID)
	return nil
}

// --- Periods ---

func (s *Store) FindPeriod(_ context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.periods[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListPeriods(_ context.Context, year int) ([]domain.ClosingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ClosingPeriod, 0)
	for key, p := range s.periods {
		if key.Year == year {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key.Month < result[j].Key.Month })
	return result, nil
}

func (s *Store) ListPeriodEvents(_ context.Context, key domain.PeriodKey) ([]domain.PeriodEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.PeriodEvent(nil), s.events[key]...), nil
}

// --- Ledger ---

func (s *Store) ListPostedLines(_ context.Context, accountID string, from, to time.Time) ([]domain.PostedLine, error) {
	s.mu.RLock()
	lines := make([]domain.PostedLine, 0)
	s.eachPostedLine(from, to, func(j domain.Journal, l domain.JournalLine) {
		if l.AccountID == accountID {
			lines = append(lines, postedLine(j, l))
		}
	})
	s.mu.RUnlock()

	sort.Slice(lines, func(i, k int) bool {
		a, b := lines[i], lines[k]
		if !a.JournalDate.Equal(b.JournalDate) {
			return a.JournalDate.Before(b.JournalDate)
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		if a.JournalID != b.JournalID {
			return a.JournalID < b.JournalID
		}
		return a.LineNo < b.LineNo
	})
	return lines, nil
}

func (s *Store) SumPostedLines(_ context.Context, accountID string, before time.Time) (domain.LineTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totals domain.LineTotals
	s.eachPostedLine(time.Time{}, before, func(_ domain.Journal, l domain.JournalLine) {
		if l.AccountID == accountID {
			totals = totals.Add(l.Debit, l.Credit)
		}
	})
	return totals, nil
}

func (s *Store) SumPostedLinesByAccount(_ context.Context, from, to time.Time) (map[string]domain.LineTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sumByAccount(from, to), nil
}

// ReconciliationSnapshot reads everything under one read lock, so no commit
// lands between the sums and the stored balances.
func (s *Store) ReconciliationSnapshot(_ context.Context, from, to time.Time) (domain.LedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.LedgerSnapshot{
		Movements: s.sumByAccount(from, to),
		AllTime:   s.sumByAccount(time.Time{}, time.Time{}),
		Accounts:  s.listAccounts(true),
	}, nil
}

// sumByAccount totals posted lines per account. The caller holds s.mu.
func (s *Store) sumByAccount(from, to time.Time) map[string]domain.LineTotals {
	sums := make(map[string]domain.LineTotals)
	s.eachPostedLine(from, to, func(_ domain.Journal, l domain.JournalLine) {
		sums[l.AccountID] = sums[l.AccountID].Add(l.Debit, l.Credit)
	})
	return sums
}

// eachPostedLine visits lines of posted and reversed journals dated in [from, to).
// A zero bound is open. The caller holds s.mu.
func (s *Store) eachPostedLine(from, to time.Time, fn func(j domain.Journal, l domain.JournalLine)) {
	for _, j := range s.journals {
		if j.Status == domain.Draft {
			continue
		}
		if !from.IsZero() && j.JournalDate.Before(from) {
			continue
		}
		if !to.IsZero() && !j.JournalDate.Before(to) {
			continue
		}
		for _, l := range j.Lines {
			fn(j, l)
		}
	}
}

func postedLine(j domain.Journal, l domain.JournalLine) domain.PostedLine {
	return domain.PostedLine{
		JournalID:     j.JournalID,
		Number:        j.Number,
		JournalDate:   j.JournalDate,
		Description:   j.Description,
		LineNo:        l.LineNo,
		AccountID:     l.AccountID,
		Debit:         l.Debit,
		Credit:        l.Credit,
		LineMemo:      l.Description,
		JournalStatus: j.Status,
	}
}

func cloneJournal(j domain.Journal) domain.Journal {
	j.Lines = append([]domain.JournalLine(nil), j.Lines...)
	return j
}
