package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Resolve(ctx context.Context, codeOrID string) (*domain.Account, error) {
	args := m.Called(ctx, codeOrID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) IsActive(account domain.Account) bool {
	return m.Called(account).Bool(0)
}
func (m *MockAccountService) ResolveLines(ctx context.Context, lines []domain.JournalLine) (map[string]domain.Account, error) {
	args := m.Called(ctx, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, codeOrID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, codeOrID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) SetAccountActive(ctx context.Context, codeOrID string, active bool, actor string) (*domain.Account, error) {
	args := m.Called(ctx, codeOrID, active, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) journal(args mock.Arguments) (*domain.Journal, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}
func (m *MockJournalService) GetJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, journalID))
}
func (m *MockJournalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Journal), next, args.Error(2)
}
func (m *MockJournalService) CreateDraft(ctx context.Context, req dto.CreateJournalRequest, actor string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, req, actor))
}
func (m *MockJournalService) UpdateDraft(ctx context.Context, journalID string, req dto.UpdateJournalRequest, actor string) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, journalID, req, actor))
}
func (m *MockJournalService) DeleteDraft(ctx context.Context, journalID string, actor string) error {
	return m.Called(ctx, journalID, actor).Error(0)
}
func (m *MockJournalService) Post(ctx context.Context, journalID string, actor string, caps domain.Capability) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, journalID, actor, caps))
}
func (m *MockJournalService) BuildAndPost(ctx context.Context, req dto.CreateJournalRequest, actor string, caps domain.Capability) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, req, actor, caps))
}
func (m *MockJournalService) Reverse(ctx context.Context, journalID string, req dto.ReverseJournalRequest, actor string, caps domain.Capability) (*domain.Journal, error) {
	return m.journal(m.Called(ctx, journalID, req, actor, caps))
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) period(args mock.Arguments) (*domain.ClosingPeriod, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingPeriod), args.Error(1)
}
func (m *MockPeriodService) CanPost(ctx context.Context, date time.Time, caps domain.Capability) (domain.PostingDecision, error) {
	args := m.Called(ctx, date, caps)
	return args.Get(0).(domain.PostingDecision), args.Error(1)
}
func (m *MockPeriodService) GetPeriod(ctx context.Context, key domain.PeriodKey) (*domain.ClosingPeriod, error) {
	return m.period(m.Called(ctx, key))
}
func (m *MockPeriodService) ListPeriods(ctx context.Context, year int) ([]domain.ClosingPeriod, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClosingPeriod), args.Error(1)
}
func (m *MockPeriodService) ListPeriodEvents(ctx context.Context, key domain.PeriodKey) ([]domain.PeriodEvent, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodEvent), args.Error(1)
}
func (m *MockPeriodService) SoftClose(ctx context.Context, key domain.PeriodKey, excludedJournalIDs []string, actor string) (*domain.ClosingPeriod, error) {
	return m.period(m.Called(ctx, key, excludedJournalIDs, actor))
}
func (m *MockPeriodService) HardClose(ctx context.Context, key domain.PeriodKey, actor string) (*domain.ClosingPeriod, error) {
	return m.period(m.Called(ctx, key, actor))
}
func (m *MockPeriodService) Reopen(ctx context.Context, key domain.PeriodKey, reason string, actor string, caps domain.Capability) (*domain.ClosingPeriod, error) {
	return m.period(m.Called(ctx, key, reason, actor, caps))
}

// Ensure mock implements the interface
var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) BalanceAsOf(ctx context.Context, accountRef string, date time.Time) (domain.Amount, error) {
	args := m.Called(ctx, accountRef, date)
	return args.Get(0).(domain.Amount), args.Error(1)
}
func (m *MockLedgerService) Statement(ctx context.Context, accountRef string, period domain.PeriodKey) (*domain.Statement, error) {
	args := m.Called(ctx, accountRef, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}
func (m *MockLedgerService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockLedgerService) Reconcile(ctx context.Context, period domain.PeriodKey) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvc = (*MockLedgerService)(nil)
