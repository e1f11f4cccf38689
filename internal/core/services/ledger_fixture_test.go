package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/core/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/SscSPs/bukubesar/internal/platform/config"
	"github.com/SscSPs/bukubesar/internal/repositories/memory"
	"github.com/stretchr/testify/require"
)

// rp is one rupiah in minor units at scale 2.
const rp domain.Amount = 100

const (
	codeKas        = "1-1100"
	codeBank       = "1-1200"
	codeUtangGaji  = "2-1100"
	codeModal      = "3-1000"
	codePendapatan = "4-1000"
	codeBebanGaji  = "5-1100"
)

var (
	postingDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	fixedNow    = time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	march2024   = domain.PeriodKey{Year: 2024, Month: 3}
	allCaps     = domain.CapReviseSoftClosed | domain.CapReopenPeriod
)

type ledgerFixture struct {
	t     *testing.T
	store *memory.Store
	svc   *portssvc.ServiceContainer
	ids   map[string]string // code -> account ID
	seq   int
}

func newLedgerFixture(t *testing.T, opts ...services.ServiceOption) *ledgerFixture {
	t.Helper()
	store := memory.New()
	cfg := &config.Config{LedgerLocation: time.UTC, PostingMaxAttempts: 3}
	opts = append([]services.ServiceOption{services.WithClock(func() time.Time { return fixedNow })}, opts...)

	f := &ledgerFixture{
		t:     t,
		store: store,
		svc:   services.NewServiceContainer(cfg, memory.NewRepositoryProvider(store), opts...),
		ids:   make(map[string]string),
	}
	for _, a := range []struct {
		code string
		name string
		typ  domain.AccountType
	}{
		{codeKas, "Kas", domain.Asset},
		{codeBank, "Bank BCA", domain.Asset},
		{codeUtangGaji, "Utang Gaji", domain.Liability},
		{codeModal, "Modal Disetor", domain.Equity},
		{codePendapatan, "Pendapatan Jasa", domain.Revenue},
		{codeBebanGaji, "Beban Gaji", domain.Expense},
	} {
		acc, err := f.svc.Account.CreateAccount(context.Background(), dto.CreateAccountRequest{Code: a.code, Name: a.name, AccountType: a.typ}, "admin")
		require.NoError(t, err)
		f.ids[a.code] = acc.AccountID
	}
	return f
}

func debit(code string, amount domain.Amount) dto.JournalLineInput {
	return dto.JournalLineInput{AccountRef: code, Debit: amount}
}

func credit(code string, amount domain.Amount) dto.JournalLineInput {
	return dto.JournalLineInput{AccountRef: code, Credit: amount}
}

func (f *ledgerFixture) draft(date time.Time, lines ...dto.JournalLineInput) *domain.Journal {
	f.t.Helper()
	f.seq++
	j, err := f.svc.Journal.CreateDraft(context.Background(), dto.CreateJournalRequest{
		Date:        date,
		Description: fmt.Sprintf("journal %d", f.seq),
		Lines:       lines,
	}, "clerk")
	require.NoError(f.t, err)
	return j
}

func (f *ledgerFixture) post(date time.Time, lines ...dto.JournalLineInput) *domain.Journal {
	f.t.Helper()
	d := f.draft(date, lines...)
	posted, err := f.svc.Journal.Post(context.Background(), d.JournalID, "clerk", 0)
	require.NoError(f.t, err)
	return posted
}

func (f *ledgerFixture) balance(code string, date time.Time) domain.Amount {
	f.t.Helper()
	b, err := f.svc.Ledger.BalanceAsOf(context.Background(), code, date)
	require.NoError(f.t, err)
	return b
}

func (f *ledgerFixture) stored(code string) domain.Amount {
	f.t.Helper()
	acc, err := f.store.FindAccountByCode(context.Background(), code)
	require.NoError(f.t, err)
	return acc.Balance
}

func (f *ledgerFixture) softClose(key domain.PeriodKey, excluded ...string) {
	f.t.Helper()
	_, err := f.svc.Period.SoftClose(context.Background(), key, excluded, "controller")
	require.NoError(f.t, err)
}

func (f *ledgerFixture) hardClose(key domain.PeriodKey, excluded ...string) {
	f.t.Helper()
	f.softClose(key, excluded...)
	_, err := f.svc.Period.HardClose(context.Background(), key, "controller")
	require.NoError(f.t, err)
}
