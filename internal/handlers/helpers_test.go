package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/bukubesar/internal/handlers"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/SscSPs/bukubesar/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testIssuer = "bukubesar-test"
	testScale  = int32(2)
)

// handlerSuite wires every route group against mocked services behind the
// real auth middleware.
type handlerSuite struct {
	suite.Suite
	router   *gin.Engine
	accounts *MockAccountService
	journals *MockJournalService
	periods  *MockPeriodService
	ledger   *MockLedgerService
}

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(handlers.RegisterValidators())

	s.accounts = new(MockAccountService)
	s.journals = new(MockJournalService)
	s.periods = new(MockPeriodService)
	s.ledger = new(MockLedgerService)

	s.router = gin.New()
	v1 := s.router.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	handlers.RegisterAccountRoutes(v1, s.accounts, testScale)
	handlers.RegisterJournalRoutes(v1, s.journals, testScale)
	handlers.RegisterSourceRoutes(v1, s.journals, testScale)
	handlers.RegisterPeriodRoutes(v1, s.periods)
	handlers.RegisterLedgerRoutes(v1, s.ledger, s.accounts, handlers.LedgerOptions{Scale: testScale, Currency: "IDR", Location: time.UTC})
}

func (s *handlerSuite) TearDownTest() {
	s.accounts.AssertExpectations(s.T())
	s.journals.AssertExpectations(s.T())
	s.periods.AssertExpectations(s.T())
	s.ledger.AssertExpectations(s.T())
}

// token signs a JWT for actor carrying the given capability names.
func (s *handlerSuite) token(actor string, caps ...string) string {
	signed, err := utils.GenerateActorToken(actor, caps, testSecret, time.Hour, testIssuer)
	s.Require().NoError(err)
	return signed
}

// do serves a request. body may be nil, a string sent verbatim, or a value
// encoded as JSON.
func (s *handlerSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body into a generic map.
func (s *handlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func (s *handlerSuite) expectStatus(w *httptest.ResponseRecorder, status int) {
	s.Require().Equal(status, w.Code, w.Body.String())
}
