package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	scale          int32
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, scale int32) *accountHandler {
	return &accountHandler{
		accountService: as,
		scale:          scale,
	}
}

// RegisterAccountRoutes registers routes related to accounts. Mutating routes
// run behind the write middlewares.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, scale int32, write ...gin.HandlerFunc) {
	h := newAccountHandler(accountService, scale)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:ref", h.getAccount)
		accounts.POST("", chain(write, h.createAccount)...)
		accounts.PUT("/:ref", chain(write, h.updateAccount)...)
		accounts.PATCH("/:ref/active", chain(write, h.setAccountActive)...)
	}
}

// createAccount godoc
// @Summary Create an account
// @Description Adds an account to the chart. The code must be unique.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateAccount body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, h.scale, "create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount, h.scale))
}

// getAccount godoc
// @Summary Get an account
// @Description Resolves an account by ID or code.
// @Tags accounts
// @Produce  json
// @Param   ref path string true "Account ID or code"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /accounts/{ref} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	ref := c.Param("ref")

	account, err := h.accountService.Resolve(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err, h.scale, "get account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account, h.scale))
}

// listAccounts godoc
// @Summary List accounts
// @Description Returns the chart of accounts ordered by code.
// @Tags accounts
// @Produce  json
// @Param   includeInactive query bool false "Include inactive accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListAccounts query")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.IncludeInactive)
	if err != nil {
		respondError(c, err, h.scale, "list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(accounts, h.scale)})
}

// updateAccount godoc
// @Summary Update an account
// @Description Edits an account. Code, name, type and normal balance freeze once a posted journal references it.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   ref path string true "Account ID or code"
// @Param   account body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /accounts/{ref} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ref := c.Param("ref")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateAccount body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), ref, req, actor)
	if err != nil {
		respondError(c, err, h.scale, "update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", updated.AccountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated, h.scale))
}

// setAccountActive godoc
// @Summary Activate or deactivate an account
// @Description Inactive accounts cannot be used on new postings.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   ref path string true "Account ID or code"
// @Param   status body dto.SetAccountActiveRequest true "Active flag"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /accounts/{ref}/active [patch]
func (h *accountHandler) setAccountActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ref := c.Param("ref")

	var req dto.SetAccountActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "SetAccountActive body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updated, err := h.accountService.SetAccountActive(c.Request.Context(), ref, *req.IsActive, actor)
	if err != nil {
		respondError(c, err, h.scale, "change account status")
		return
	}

	logger.Info("Account status changed", slog.String("account_id", updated.AccountID), slog.Bool("is_active", updated.IsActive))
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated, h.scale))
}
