package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalHandlerTestSuite struct {
	handlerSuite
}

var march15 = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func capitalPayload() map[string]any {
	return map[string]any{
		"date":        "2024-03-15",
		"description": "Setoran modal",
		"lines": []map[string]any{
			{"account": "1-1100", "debit": "1000.50"},
			{"account": "3-1000", "credit": "1000.50"},
		},
	}
}

func isCapitalRequest(req dto.CreateJournalRequest) bool {
	return req.Date.Equal(march15) &&
		req.Description == "Setoran modal" &&
		len(req.Lines) == 2 &&
		req.Lines[0] == dto.JournalLineInput{AccountRef: "1-1100", Debit: 100050} &&
		req.Lines[1] == dto.JournalLineInput{AccountRef: "3-1000", Credit: 100050}
}

func postedJournal(id string) *domain.Journal {
	actor := "akuntan"
	return &domain.Journal{
		JournalID:   id,
		Number:      7,
		JournalDate: march15,
		Description: "Setoran modal",
		Source:      domain.SourceRef{Kind: domain.SourceManual},
		Status:      domain.Posted,
		Lines: []domain.JournalLine{
			{LineNo: 1, AccountID: "acc-kas", AccountCode: "1-1100", Debit: 100050},
			{LineNo: 2, AccountID: "acc-modal", AccountCode: "3-1000", Credit: 100050},
		},
		PostedBy: &actor,
	}
}

func (suite *JournalHandlerTestSuite) TestCreateDraft() {
	draft := postedJournal("j-1")
	draft.Status, draft.Number, draft.PostedBy = domain.Draft, 0, nil
	suite.journals.On("CreateDraft", mock.Anything, mock.MatchedBy(isCapitalRequest), "akuntan").Return(draft, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals", capitalPayload(), suite.token("akuntan"))

	suite.expectStatus(w, http.StatusCreated)
	var resp dto.JournalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.Draft, resp.Status)
	suite.Empty(resp.DisplayNumber)
	suite.Equal("2024-03", resp.Period)
}

func (suite *JournalHandlerTestSuite) TestCreateAndPost_PassesCapabilities() {
	suite.journals.On("BuildAndPost", mock.Anything, mock.MatchedBy(isCapitalRequest), "akuntan", domain.CapReviseSoftClosed).
		Return(postedJournal("j-1"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals?post=true", capitalPayload(), suite.token("akuntan", "revise_soft_closed"))

	suite.expectStatus(w, http.StatusCreated)
	body := suite.decode(w)
	suite.Equal("JU/2024/03/0007", body["displayNumber"])
	suite.Equal("1000.5", body["totalDebit"])
}

func (suite *JournalHandlerTestSuite) TestCreateDraft_RejectsExcessPrecision() {
	payload := capitalPayload()
	payload["lines"] = []map[string]any{{"account": "1-1100", "debit": "1.005"}}

	w := suite.do(http.MethodPost, "/api/v1/journals", payload, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusBadRequest)
	suite.Equal("VALIDATION_ERROR", suite.decode(w)["code"])
}

func (suite *JournalHandlerTestSuite) TestPost_Unbalanced() {
	suite.journals.On("Post", mock.Anything, "j-1", "akuntan", domain.Capability(0)).
		Return(nil, &apperrors.UnbalancedError{Debit: 100050, Credit: 100000}).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/post", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusUnprocessableEntity)
	body := suite.decode(w)
	suite.Equal("UNBALANCED_JOURNAL", body["code"])
	suite.Equal("1000.5", body["totalDebit"])
	suite.Equal("1000", body["totalCredit"])
	suite.Equal("0.5", body["difference"])
}

func (suite *JournalHandlerTestSuite) TestPost_UnknownAccount() {
	suite.journals.On("Post", mock.Anything, "j-1", "akuntan", domain.Capability(0)).
		Return(nil, fmt.Errorf("post journal j-1: %w", &apperrors.UnknownAccountError{Index: 1, Ref: "9-999", Inactive: true})).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/post", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusUnprocessableEntity)
	body := suite.decode(w)
	suite.Equal("UNKNOWN_ACCOUNT", body["code"])
	suite.Equal(float64(1), body["lineIndex"])
	suite.Equal("9-999", body["account"])
	suite.Equal(true, body["inactive"])
}

func (suite *JournalHandlerTestSuite) TestPost_MalformedLine() {
	suite.journals.On("Post", mock.Anything, "j-1", "akuntan", domain.Capability(0)).
		Return(nil, &apperrors.LineError{Index: 0, Reason: "both debit and credit set"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/post", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusBadRequest)
	body := suite.decode(w)
	suite.Equal("MALFORMED_LINE", body["code"])
	suite.Equal(float64(0), body["lineIndex"])
}

func (suite *JournalHandlerTestSuite) TestPost_PeriodLocked() {
	suite.journals.On("Post", mock.Anything, "j-1", "akuntan", domain.Capability(0)).
		Return(nil, &apperrors.PeriodLockedError{Period: "2024-03", Status: "SOFT_CLOSED", Reason: "soft-closed period requires revision capability"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/post", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusConflict)
	body := suite.decode(w)
	suite.Equal("PERIOD_LOCKED", body["code"])
	suite.Equal("2024-03", body["period"])
	suite.Equal("SOFT_CLOSED", body["status"])
}

func (suite *JournalHandlerTestSuite) TestPost_NumberingConflictIsRetryable() {
	cause := fmt.Errorf("%w: journal number taken", apperrors.ErrNumberingConflict)
	suite.journals.On("Post", mock.Anything, "j-1", "akuntan", domain.Capability(0)).
		Return(nil, apperrors.NewAppError(500, "failed to post journal", cause)).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/post", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusConflict)
	body := suite.decode(w)
	suite.Equal("NUMBERING_CONFLICT", body["code"])
	suite.Equal(true, body["retryable"])
}

func (suite *JournalHandlerTestSuite) TestPost_InternalErrorHidesCause() {
	suite.journals.On("Post", mock.Anything, "j-1", "akuntan", domain.Capability(0)).
		Return(nil, apperrors.NewAppError(500, "failed to begin transaction", fmt.Errorf("dial tcp: connection refused"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/post", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusInternalServerError)
	suite.NotContains(w.Body.String(), "connection refused")
}

func (suite *JournalHandlerTestSuite) TestReverse_EmptyBody() {
	reversal := postedJournal("j-2")
	original := "j-1"
	reversal.ReversalOf = &original
	suite.journals.On("Reverse", mock.Anything, "j-1", dto.ReverseJournalRequest{}, "akuntan", domain.Capability(0)).Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/reverse", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusCreated)
	suite.Equal("j-1", suite.decode(w)["reversalOf"])
}

func (suite *JournalHandlerTestSuite) TestReverse_WithDate() {
	suite.journals.On("Reverse", mock.Anything, "j-1", mock.MatchedBy(func(req dto.ReverseJournalRequest) bool {
		return req.Date != nil && req.Date.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) && req.Description == "Koreksi"
	}), "akuntan", domain.Capability(0)).Return(postedJournal("j-2"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/reverse", `{"date":"2024-04-01","description":"Koreksi"}`, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusCreated)
}

func (suite *JournalHandlerTestSuite) TestReverse_Twice() {
	suite.journals.On("Reverse", mock.Anything, "j-1", dto.ReverseJournalRequest{}, "akuntan", domain.Capability(0)).
		Return(nil, &apperrors.TransitionError{Entity: "journal", From: "REVERSED", To: "REVERSED"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/j-1/reverse", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusConflict)
	body := suite.decode(w)
	suite.Equal("INVALID_TRANSITION", body["code"])
	suite.Equal("REVERSED", body["from"])
}

func (suite *JournalHandlerTestSuite) TestDeleteDraft() {
	suite.journals.On("DeleteDraft", mock.Anything, "j-1", "akuntan").Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/journals/j-1", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusNoContent)
}

func (suite *JournalHandlerTestSuite) TestUpdateDraft_PostedJournalIsConflict() {
	suite.journals.On("UpdateDraft", mock.Anything, "j-1", mock.AnythingOfType("dto.UpdateJournalRequest"), "akuntan").
		Return(nil, &apperrors.TransitionError{Entity: "journal", From: "POSTED", To: "DRAFT", Reason: "posted journals are immutable"}).Once()

	w := suite.do(http.MethodPut, "/api/v1/journals/j-1", capitalPayload(), suite.token("akuntan"))

	suite.expectStatus(w, http.StatusConflict)
}

func (suite *JournalHandlerTestSuite) TestListJournals() {
	next := "token-2"
	params := dto.ListJournalsParams{Status: "POSTED", Limit: 10}
	suite.journals.On("ListJournals", mock.Anything, params).Return([]domain.Journal{*postedJournal("j-1")}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals?status=POSTED&limit=10", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	var resp dto.ListJournalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Journals, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)
}

func (suite *JournalHandlerTestSuite) TestListJournals_RejectsUnknownStatus() {
	w := suite.do(http.MethodGet, "/api/v1/journals?status=BOGUS", nil, suite.token("akuntan"))
	suite.expectStatus(w, http.StatusBadRequest)
}

func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
