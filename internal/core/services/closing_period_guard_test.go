package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPost_DecisionTable(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	decision, err := f.svc.Period.CanPost(ctx, postingDate, 0)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "a period that was never closed is open")
	assert.Equal(t, domain.PeriodOpen, decision.Status)

	f.softClose(march2024)
	decision, err = f.svc.Period.CanPost(ctx, postingDate, 0)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.True(t, decision.RequiresRevisionApproval)

	decision, err = f.svc.Period.CanPost(ctx, postingDate, domain.CapReviseSoftClosed)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, domain.PeriodSoftClosed, decision.Status)

	_, err = f.svc.Period.HardClose(ctx, march2024, "controller")
	require.NoError(t, err)
	decision, err = f.svc.Period.CanPost(ctx, postingDate, allCaps)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.PeriodHardClosed, decision.Status)

	decision, err = f.svc.Period.CanPost(ctx, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "neighbouring periods are unaffected")
}

func TestSoftClose_RequiresDraftsPostedOrExcluded(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	d := f.draft(postingDate, debit(codeKas, rp))
	f.draft(time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), debit(codeKas, rp))

	_, err := f.svc.Period.SoftClose(ctx, march2024, nil, "controller")
	require.ErrorIs(t, err, apperrors.ErrConflict)
	p, err := f.svc.Period.GetPeriod(ctx, march2024)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodOpen, p.Status)

	p, err = f.svc.Period.SoftClose(ctx, march2024, []string{d.JournalID}, "controller")
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodSoftClosed, p.Status)
	require.NotNil(t, p.SoftClosedAt)
	require.NotNil(t, p.ApprovedBy)
	assert.Equal(t, "controller", *p.ApprovedBy)
}

func TestTransitions_RejectInvalidMoves(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)

	_, err := f.svc.Period.HardClose(ctx, march2024, "controller")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "hard close needs a soft close first")

	_, err = f.svc.Period.Reopen(ctx, march2024, "nothing to reopen", "controller", allCaps)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	f.softClose(march2024)
	_, err = f.svc.Period.SoftClose(ctx, march2024, nil, "controller")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.svc.Period.GetPeriod(ctx, domain.PeriodKey{Year: 2024, Month: 13})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReopen_IsGatedAndAudited(t *testing.T) {
	ctx := context.Background()
	var notified []domain.PeriodEvent
	f := newLedgerFixture(t, services.WithPeriodEventListener(func(_ context.Context, ev domain.PeriodEvent) {
		notified = append(notified, ev)
	}))
	f.hardClose(march2024)

	_, err := f.svc.Period.Reopen(ctx, march2024, "koreksi PPN", "controller", domain.CapReviseSoftClosed)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.svc.Period.Reopen(ctx, march2024, "", "controller", domain.CapReopenPeriod)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	p, err := f.svc.Period.Reopen(ctx, march2024, "koreksi PPN", "cfo", domain.CapReopenPeriod)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodOpen, p.Status)
	assert.Equal(t, 1, p.ReopenCount)
	assert.Nil(t, p.HardClosedAt)

	events, err := f.svc.Period.ListPeriodEvents(ctx, march2024)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []domain.PeriodAction{domain.ActionSoftClose, domain.ActionHardClose, domain.ActionReopen},
		[]domain.PeriodAction{events[0].Action, events[1].Action, events[2].Action})
	assert.Equal(t, "koreksi PPN", events[2].Reason)
	assert.Equal(t, "cfo", events[2].Actor)
	assert.Equal(t, domain.PeriodHardClosed, events[2].From)

	require.Len(t, notified, 3, "listeners only see committed transitions")
	assert.Equal(t, events[2].EventID, notified[2].EventID)

	posted := f.post(postingDate, debit(codeKas, rp), credit(codePendapatan, rp))
	assert.Equal(t, domain.Posted, posted.Status)

	periods, err := f.svc.Period.ListPeriods(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, march2024, periods[0].Key)
}
