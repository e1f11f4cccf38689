package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerHandlerTestSuite struct {
	handlerSuite
}

func (suite *LedgerHandlerTestSuite) TestBalanceAsOf() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.accounts.On("Resolve", mock.Anything, "1-1100").Return(kasAccount(), nil).Once()
	suite.ledger.On("BalanceAsOf", mock.Anything, "acc-kas", asOf).Return(domain.Amount(1_250_000), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/accounts/1-1100/balance?asOf=2024-03-31", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	body := suite.decode(w)
	suite.Equal("12500", body["balance"])
	suite.Equal("IDR", body["currency"])
	suite.Equal("2024-03-31", body["asOf"])
	suite.Equal("1-1100", body["code"])
}

func (suite *LedgerHandlerTestSuite) TestBalanceAsOf_RejectsBadDate() {
	w := suite.do(http.MethodGet, "/api/v1/ledger/accounts/1-1100/balance?asOf=31-03-2024", nil, suite.token("akuntan"))
	suite.expectStatus(w, http.StatusBadRequest)
}

func (suite *LedgerHandlerTestSuite) TestStatement() {
	acc := *kasAccount()
	statement := &domain.Statement{
		Account: acc,
		Period:  march2024,
		Opening: 100_000,
		Entries: []domain.LedgerEntry{
			{JournalID: "j-1", DisplayNumber: "JU/2024/03/0001", JournalDate: march15, Debit: 50_000, Balance: 150_000},
		},
		TotalDebit: 50_000,
		Closing:    150_000,
	}
	suite.ledger.On("Statement", mock.Anything, "1-1100", march2024).Return(statement, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/accounts/1-1100/statement?period=2024-03", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	body := suite.decode(w)
	suite.Equal("1000", body["opening"])
	suite.Equal("1500", body["closing"])
	entries := body["entries"].([]any)
	suite.Require().Len(entries, 1)
	suite.Equal("JU/2024/03/0001", entries[0].(map[string]any)["displayNumber"])
}

func (suite *LedgerHandlerTestSuite) TestStatement_RequiresPeriod() {
	w := suite.do(http.MethodGet, "/api/v1/ledger/accounts/1-1100/statement", nil, suite.token("akuntan"))
	suite.expectStatus(w, http.StatusBadRequest)
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	tb := &domain.TrialBalance{
		AsOf: asOf,
		Rows: []domain.TrialBalanceRow{
			{Account: *kasAccount(), Debit: 100_000, Balance: 100_000},
			{Account: domain.Account{AccountID: "acc-modal", Code: "3-1000", Name: "Modal"}, Credit: 100_000, Balance: 100_000},
		},
		TotalDebit:  100_000,
		TotalCredit: 100_000,
	}
	suite.ledger.On("TrialBalance", mock.Anything, asOf).Return(tb, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/trial-balance?asOf=2024-03-31", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	body := suite.decode(w)
	suite.Equal(true, body["balanced"])
	suite.Len(body["rows"], 2)
}

func (suite *LedgerHandlerTestSuite) TestReconcile_ReportsMismatch() {
	report := &domain.ReconciliationReport{
		Period:            march2024,
		DebitNormalDelta:  100_000,
		CreditNormalDelta: 100_000,
		Mismatches:        []domain.BalanceMismatch{{AccountID: "acc-kas", Code: "1-1100", Stored: 90_000, Folded: 100_000}},
	}
	suite.ledger.On("Reconcile", mock.Anything, march2024).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/reconcile?period=2024-03", nil, suite.token("akuntan"))

	suite.expectStatus(w, http.StatusOK)
	body := suite.decode(w)
	suite.Equal(false, body["balanced"])
	suite.Len(body["mismatches"], 1)
}

func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
