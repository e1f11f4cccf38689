package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portsrepo "github.com/SscSPs/bukubesar/internal/core/ports/repositories"
)

// keyedLocks hands out one exclusive lock per key. Waiting for a lock honours
// context cancellation.
type keyedLocks[K comparable] struct {
	mu    sync.Mutex
	slots map[K]chan struct{}
}

func newKeyedLocks[K comparable]() *keyedLocks[K] {
	return &keyedLocks[K]{slots: make(map[K]chan struct{})}
}

func (l *keyedLocks[K]) acquire(ctx context.Context, key K) error {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *keyedLocks[K]) release(key K) {
	l.mu.Lock()
	slot := l.slots[key]
	l.mu.Unlock()
	<-slot
}

type journalUpdate struct {
	journal  domain.Journal
	inserted bool
}

// memTx stages writes until commit. Journal and period locks taken through it
// are held until the unit of work ends.
type memTx struct {
	store *Store

	heldJournals map[string]bool
	heldPeriods  map[domain.PeriodKey]bool

	journals []journalUpdate
	accounts map[string]domain.Account // as seen by LockAccounts
	balances map[string]domain.Amount
	actor    string
	at       time.Time
	periods  map[domain.PeriodKey]domain.ClosingPeriod
	events   []domain.PeriodEvent
	counters map[domain.PeriodKey]int64
}

var _ portsrepo.LedgerTx = (*memTx)(nil)

// WithinTx runs fn and publishes its staged writes atomically when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx := &memTx{
		store:        s,
		heldJournals: make(map[string]bool),
		heldPeriods:  make(map[domain.PeriodKey]bool),
		accounts:     make(map[string]domain.Account),
		balances:     make(map[string]domain.Amount),
		periods:      make(map[domain.PeriodKey]domain.ClosingPeriod),
		counters:     make(map[domain.PeriodKey]int64),
	}
	defer tx.releaseAll()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

func (t *memTx) releaseAll() {
	for id := range t.heldJournals {
		t.store.journalLocks.release(id)
	}
	for key := range t.heldPeriods {
		t.store.periodLocks.release(key)
	}
}

func (t *memTx) lockJournal(ctx context.Context, journalID string) error {
	if t.heldJournals[journalID] {
		return nil
	}
	if err := t.store.journalLocks.acquire(ctx, journalID); err != nil {
		return err
	}
	t.heldJournals[journalID] = true
	return nil
}

func (t *memTx) lockPeriod(ctx context.Context, key domain.PeriodKey) error {
	if t.heldPeriods[key] {
		return nil
	}
	if err := t.store.periodLocks.acquire(ctx, key); err != nil {
		return err
	}
	t.heldPeriods[key] = true
	return nil
}

func (t *memTx) LockJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	if err := t.lockJournal(ctx, journalID); err != nil {
		return nil, err
	}
	return t.store.FindJournalByID(ctx, journalID)
}

func (t *memTx) LockPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error) {
	if err := t.lockPeriod(ctx, key); err != nil {
		return nil, err
	}
	if p, ok := t.periods[key]; ok {
		return &p, nil
	}
	p, err := t.store.FindPeriod(ctx, key)
	if err != nil {
		open := domain.NewOpenPeriod(key)
		return &open, nil
	}
	return p, nil
}

func (t *memTx) NextJournalNumber(ctx context.Context, key domain.PeriodKey) (int64, error) {
	if err := t.lockPeriod(ctx, key); err != nil {
		return 0, err
	}
	n, ok := t.counters[key]
	if !ok {
		t.store.mu.RLock()
		n = t.store.counters[key]
		t.store.mu.RUnlock()
	}
	n++
	t.counters[key] = n
	return n, nil
}

func (t *memTx) InsertJournal(_ context.Context, journal domain.Journal) error {
	t.journals = append(t.journals, journalUpdate{journal: cloneJournal(journal), inserted: true})
	return nil
}

func (t *memTx) UpdatePostedJournal(_ context.Context, journal domain.Journal) error {
	t.journals = append(t.journals, journalUpdate{journal: cloneJournal(journal)})
	return nil
}

// LockAccounts reads the accounts and remembers what it saw. Commit fails if
// any of them was deactivated or changed sides in the meantime.
func (t *memTx) LockAccounts(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := t.store.accounts[id]; ok {
			out[id] = acc
			t.accounts[id] = acc
		}
	}
	return out, nil
}

func (t *memTx) ApplyBalanceChanges(_ context.Context, changes map[string]domain.Amount, actor string, at time.Time) error {
	for id, delta := range changes {
		t.balances[id] += delta
	}
	t.actor, t.at = actor, at
	return nil
}

func (t *memTx) SavePeriod(_ context.Context, period domain.ClosingPeriod) error {
	if !t.heldPeriods[period.Key] {
		return fmt.Errorf("period %s saved without holding its lock", period.Key)
	}
	t.periods[period.Key] = period
	return nil
}

func (t *memTx) AppendPeriodEvent(_ context.Context, event domain.PeriodEvent) error {
	t.events = append(t.events, event)
	return nil
}

func (t *memTx) CountDrafts(_ context.Context, key domain.PeriodKey, excluded []string) (int, error) {
	skip := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	count := 0
	for id, j := range t.store.journals {
		if j.Status == domain.Draft && j.Period() == key && !skip[id] {
			count++
		}
	}
	return count, nil
}

// commit validates every staged write against committed state and publishes
// them all, or none.
func (t *memTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range t.journals {
		stored, exists := s.journals[u.journal.JournalID]
		switch {
		case u.inserted && exists:
			return fmt.Errorf("%w: journal %s already exists", apperrors.ErrDuplicate, u.journal.JournalID)
		case !u.inserted && !exists:
			return apperrors.ErrNotFound
		case !u.inserted && stored.Version != u.journal.Version-1:
			return fmt.Errorf("%w: journal %s changed while posting", apperrors.ErrConflict, u.journal.JournalID)
		}
	}
	for id, seen := range t.accounts {
		acc, ok := s.accounts[id]
		if !ok || acc.IsActive != seen.IsActive || acc.NormalBalance != seen.NormalBalance {
			return fmt.Errorf("%w: account %s changed while posting", apperrors.ErrConflict, id)
		}
	}
	for id := range t.balances {
		if acc, ok := s.accounts[id]; !ok || !acc.IsActive {
			return fmt.Errorf("%w: account %s is missing or inactive", apperrors.ErrConflict, id)
		}
	}

	for _, u := range t.journals {
		s.journals[u.journal.JournalID] = u.journal
	}
	for id, delta := range t.balances {
		acc := s.accounts[id]
		acc.Balance += delta
		acc.LastUpdatedAt = t.at
		acc.LastUpdatedBy = t.actor
		s.accounts[id] = acc
	}
	for key, n := range t.counters {
		s.counters[key] = n
	}
	for key, p := range t.periods {
		s.periods[key] = p
	}
	for _, ev := range t.events {
		s.events[ev.Period] = append(s.events[ev.Period], ev)
	}
	return nil
}
