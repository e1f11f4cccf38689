//go:build integration

package pgsql_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/core/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/SscSPs/bukubesar/internal/platform/config"
	"github.com/SscSPs/bukubesar/internal/repositories/database/pgsql"
	"github.com/SscSPs/bukubesar/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march15 = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func newPgContainer(t *testing.T) *portssvc.ServiceContainer {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("BUKUBESAR_TEST_PGSQL_URL"))
	if dsn == "" {
		t.Skip("BUKUBESAR_TEST_PGSQL_URL not set")
	}
	ctx := context.Background()

	require.NoError(t, database.RunMigrations(dsn, "file://../../../../migrations", slog.Default()))
	pool, err := database.NewPgxPool(ctx, dsn, true)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE period_events, closing_periods, journal_counters, journal_lines, journals, accounts;`)
	require.NoError(t, err)

	cfg := &config.Config{LedgerLocation: time.UTC, PostingMaxAttempts: 3}
	svc := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool),
		services.WithClock(func() time.Time { return march15.Add(10 * time.Hour) }))

	for _, a := range []dto.CreateAccountRequest{
		{Code: "1-1100", Name: "Kas", AccountType: domain.Asset},
		{Code: "4-1000", Name: "Pendapatan", AccountType: domain.Revenue},
	} {
		_, err := svc.Account.CreateAccount(ctx, a, "setup")
		require.NoError(t, err)
	}
	return svc
}

func kasSale(amount domain.Amount) dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Date:        march15,
		Description: "Penjualan tunai",
		Lines: []dto.JournalLineInput{
			{AccountRef: "1-1100", Debit: amount},
			{AccountRef: "4-1000", Credit: amount},
		},
	}
}

func TestPostgres_PostReverseAndClose(t *testing.T) {
	svc := newPgContainer(t)
	ctx := context.Background()

	posted, err := svc.Journal.BuildAndPost(ctx, kasSale(1_000_000), "clerk", 0)
	require.NoError(t, err)
	assert.Equal(t, "JU/2024/03/0001", posted.DisplayNumber())

	kas, err := svc.Ledger.BalanceAsOf(ctx, "1-1100", march15)
	require.NoError(t, err)
	assert.Equal(t, domain.Amount(1_000_000), kas)

	reversal, err := svc.Journal.Reverse(ctx, posted.JournalID, dto.ReverseJournalRequest{}, "clerk", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reversal.Number)

	_, err = svc.Journal.Reverse(ctx, posted.JournalID, dto.ReverseJournalRequest{}, "clerk", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	report, err := svc.Ledger.Reconcile(ctx, domain.PeriodKey{Year: 2024, Month: 3})
	require.NoError(t, err)
	assert.True(t, report.Balanced())

	key := domain.PeriodKey{Year: 2024, Month: 3}
	_, err = svc.Period.SoftClose(ctx, key, nil, "controller")
	require.NoError(t, err)
	_, err = svc.Period.HardClose(ctx, key, "controller")
	require.NoError(t, err)

	_, err = svc.Journal.BuildAndPost(ctx, kasSale(5), "clerk", domain.CapReviseSoftClosed)
	assert.ErrorIs(t, err, apperrors.ErrPeriodLocked)

	events, err := svc.Period.ListPeriodEvents(ctx, key)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.ActionSoftClose, events[0].Action)
}

func TestPostgres_ConcurrentPostingIsGapless(t *testing.T) {
	svc := newPgContainer(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	numbers := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, err := svc.Journal.BuildAndPost(ctx, kasSale(10), "clerk", 0)
			if assert.NoError(t, err) {
				numbers <- j.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool)
	for num := range numbers {
		assert.False(t, seen[num], "number %d issued twice", num)
		seen[num] = true
	}
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "number %d missing", i)
	}
}
