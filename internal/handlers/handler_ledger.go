package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves balances, statements and trial balances.
type ledgerHandler struct {
	ledgerService  portssvc.LedgerSvc
	accountService portssvc.AccountReaderSvc
	scale          int32
	currency       string
	location       *time.Location
}

// LedgerOptions describes how amounts and dates are presented.
type LedgerOptions struct {
	Scale    int32
	Currency string
	Location *time.Location // Decides what "today" is when asOf is omitted
}

// RegisterLedgerRoutes registers the read-only ledger routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc, accountService portssvc.AccountReaderSvc, opts LedgerOptions) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	h := &ledgerHandler{
		ledgerService:  ledgerService,
		accountService: accountService,
		scale:          opts.Scale,
		currency:       opts.Currency,
		location:       loc,
	}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/accounts/:ref/balance", h.getBalance)
		ledger.GET("/accounts/:ref/statement", h.getStatement)
		ledger.GET("/trial-balance", h.getTrialBalance)
		ledger.GET("/reconcile", h.reconcile)
	}
}

func (h *ledgerHandler) today() time.Time {
	now := time.Now().In(h.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// getBalance godoc
// @Summary Get an account balance
// @Description Balance from posted journals dated on or before asOf. Defaults to today.
// @Tags ledger
// @Produce  json
// @Param   ref path string true "Account ID or code"
// @Param   asOf query string false "Date as YYYY-MM-DD"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /ledger/accounts/{ref}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "Balance query")
		return
	}
	asOf, err := params.Date(h.today())
	if err != nil {
		respondError(c, err, h.scale, "get balance")
		return
	}

	account, err := h.accountService.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err, h.scale, "get balance")
		return
	}

	balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), account.AccountID, asOf)
	if err != nil {
		respondError(c, err, h.scale, "get balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: account.AccountID,
		Code:      account.Code,
		AsOf:      asOf.Format(time.DateOnly),
		Balance:   balance.Decimal(h.scale),
		Currency:  h.currency,
	})
}

// getStatement godoc
// @Summary Get an account statement
// @Description Returns the buku besar of an account for one period with running balances.
// @Tags ledger
// @Produce  json
// @Param   ref path string true "Account ID or code"
// @Param   period query string true "Period as YYYY-MM"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /ledger/accounts/{ref}/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "Statement query")
		return
	}
	key, err := params.Key()
	if err != nil {
		respondError(c, err, h.scale, "get statement")
		return
	}

	statement, err := h.ledgerService.Statement(c.Request.Context(), c.Param("ref"), key)
	if err != nil {
		respondError(c, err, h.scale, "get statement")
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(statement, h.scale))
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Returns the neraca saldo up to asOf. Defaults to today.
// @Tags ledger
// @Produce  json
// @Param   asOf query string false "Date as YYYY-MM-DD"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /ledger/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "TrialBalance query")
		return
	}
	asOf, err := params.Date(h.today())
	if err != nil {
		respondError(c, err, h.scale, "get trial balance")
		return
	}

	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, h.scale, "get trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb, h.scale))
}

// reconcile godoc
// @Summary Reconcile a period
// @Description Checks the period's posted lines against stored running balances.
// @Tags ledger
// @Produce  json
// @Param   period query string true "Period as YYYY-MM"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /ledger/reconcile [get]
func (h *ledgerHandler) reconcile(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "Reconcile query")
		return
	}
	key, err := params.Key()
	if err != nil {
		respondError(c, err, h.scale, "reconcile period")
		return
	}

	report, err := h.ledgerService.Reconcile(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, h.scale, "reconcile period")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(report, h.scale))
}
