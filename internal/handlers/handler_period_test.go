package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PeriodHandlerTestSuite struct {
	handlerSuite
}

var march2024 = domain.PeriodKey{Year: 2024, Month: time.March}

func (suite *PeriodHandlerTestSuite) TestGetPeriod_NeverClosedIsOpen() {
	open := domain.NewOpenPeriod(march2024)
	suite.periods.On("GetPeriod", mock.Anything, march2024).Return(&open, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods/2024-03", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	body := suite.decode(w)
	suite.Equal("2024-03", body["period"])
	suite.Equal("OPEN", body["status"])
	suite.NotContains(body, "lastUpdatedAt")
}

func (suite *PeriodHandlerTestSuite) TestGetPeriod_MalformedKey() {
	w := suite.do(http.MethodGet, "/api/v1/periods/2024-13", nil, suite.token("akuntan"))
	suite.expectStatus(w, http.StatusBadRequest)
}

func (suite *PeriodHandlerTestSuite) TestListPeriods_RequiresYear() {
	w := suite.do(http.MethodGet, "/api/v1/periods", nil, suite.token("akuntan"))
	suite.expectStatus(w, http.StatusBadRequest)
}

func (suite *PeriodHandlerTestSuite) TestListPeriods() {
	soft := domain.ClosingPeriod{Key: march2024, Status: domain.PeriodSoftClosed}
	suite.periods.On("ListPeriods", mock.Anything, 2024).Return([]domain.ClosingPeriod{soft}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods?year=2024", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	periods := suite.decode(w)["periods"].([]any)
	suite.Require().Len(periods, 1)
	suite.Equal("SOFT_CLOSED", periods[0].(map[string]any)["status"])
}

func (suite *PeriodHandlerTestSuite) TestCanPost_DefaultsToPeriodStart() {
	decision := domain.PostingDecision{Status: domain.PeriodSoftClosed, Reason: "soft-closed period requires revision capability", RequiresRevisionApproval: true}
	suite.periods.On("CanPost", mock.Anything, march2024.Start(), domain.Capability(0)).Return(decision, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods/2024-03/can-post", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	body := suite.decode(w)
	suite.Equal(false, body["allowed"])
	suite.Equal(true, body["requiresRevisionApproval"])
	suite.Equal("2024-03-01", body["date"])
}

func (suite *PeriodHandlerTestSuite) TestCanPost_WithRevisionCapability() {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	decision := domain.PostingDecision{Allowed: true, Status: domain.PeriodSoftClosed, RequiresRevisionApproval: true}
	suite.periods.On("CanPost", mock.Anything, date, domain.CapReviseSoftClosed).Return(decision, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods/2024-03/can-post?date=2024-03-20", nil, suite.token("supervisor", "revise_soft_closed"))

	suite.expectStatus(w, http.StatusOK)
	suite.Equal(true, suite.decode(w)["allowed"])
}

func (suite *PeriodHandlerTestSuite) TestCanPost_DateOutsidePeriod() {
	w := suite.do(http.MethodGet, "/api/v1/periods/2024-03/can-post?date=2024-04-01", nil, suite.token("akuntan"))
	suite.expectStatus(w, http.StatusBadRequest)
}

func (suite *PeriodHandlerTestSuite) TestSoftClose_WithExcludedDrafts() {
	now := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	closed := domain.ClosingPeriod{Key: march2024, Status: domain.PeriodSoftClosed, SoftClosedAt: &now}
	suite.periods.On("SoftClose", mock.Anything, march2024, []string{"j-9"}, "supervisor").Return(&closed, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods/2024-03/soft-close", `{"excludedJournalIDs":["j-9"]}`, suite.token("supervisor"))

	suite.expectStatus(w, http.StatusOK)
	suite.Equal("SOFT_CLOSED", suite.decode(w)["status"])
}

func (suite *PeriodHandlerTestSuite) TestSoftClose_PendingDrafts() {
	suite.periods.On("SoftClose", mock.Anything, march2024, []string(nil), "supervisor").
		Return(nil, fmt.Errorf("%w: 2 draft journals remain in 2024-03", apperrors.ErrConflict)).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods/2024-03/soft-close", nil, suite.token("supervisor"))

	suite.expectStatus(w, http.StatusConflict)
}

func (suite *PeriodHandlerTestSuite) TestHardClose_FromOpenIsInvalid() {
	suite.periods.On("HardClose", mock.Anything, march2024, "supervisor").
		Return(nil, &apperrors.TransitionError{Entity: "period", From: "OPEN", To: "HARD_CLOSED"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods/2024-03/hard-close", nil, suite.token("supervisor"))

	suite.expectStatus(w, http.StatusConflict)
	body := suite.decode(w)
	suite.Equal("INVALID_TRANSITION", body["code"])
	suite.Equal("HARD_CLOSED", body["to"])
}

func (suite *PeriodHandlerTestSuite) TestReopen_RequiresReason() {
	w := suite.do(http.MethodPost, "/api/v1/periods/2024-03/reopen", `{}`, suite.token("direktur", "reopen_period"))
	suite.expectStatus(w, http.StatusBadRequest)
}

func (suite *PeriodHandlerTestSuite) TestReopen_WithoutCapabilityIsForbidden() {
	suite.periods.On("Reopen", mock.Anything, march2024, "audit adjustment", "akuntan", domain.Capability(0)).
		Return(nil, fmt.Errorf("%w: reopening needs the reopen capability", apperrors.ErrForbidden)).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods/2024-03/reopen", `{"reason":"audit adjustment"}`, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusForbidden)
	suite.Equal("FORBIDDEN", suite.decode(w)["code"])
}

func (suite *PeriodHandlerTestSuite) TestReopen() {
	reopened := domain.ClosingPeriod{Key: march2024, Status: domain.PeriodOpen, ReopenCount: 1}
	suite.periods.On("Reopen", mock.Anything, march2024, "audit adjustment", "direktur", domain.CapReopenPeriod).Return(&reopened, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/periods/2024-03/reopen", `{"reason":"audit adjustment"}`, suite.token("direktur", "reopen_period"))

	suite.expectStatus(w, http.StatusOK)
	suite.Equal(float64(1), suite.decode(w)["reopenCount"])
}

func (suite *PeriodHandlerTestSuite) TestListEvents() {
	at := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	events := []domain.PeriodEvent{
		{EventID: "ev-1", Period: march2024, Action: domain.ActionSoftClose, From: domain.PeriodOpen, To: domain.PeriodSoftClosed, Actor: "supervisor", OccurredAt: at},
		{EventID: "ev-2", Period: march2024, Action: domain.ActionReopen, From: domain.PeriodSoftClosed, To: domain.PeriodOpen, Actor: "direktur", Reason: "koreksi", OccurredAt: at.Add(time.Hour)},
	}
	suite.periods.On("ListPeriodEvents", mock.Anything, march2024).Return(events, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/periods/2024-03/events", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	got := suite.decode(w)["events"].([]any)
	suite.Require().Len(got, 2)
	suite.Equal("REOPEN", got[1].(map[string]any)["action"])
	suite.Equal("koreksi", got[1].(map[string]any)["reason"])
}

func TestPeriodHandler(t *testing.T) {
	suite.Run(t, new(PeriodHandlerTestSuite))
}
