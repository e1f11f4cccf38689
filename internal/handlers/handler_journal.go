package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	scale          int32
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade, scale int32) *journalHandler {
	return &journalHandler{
		journalService: js,
		scale:          scale,
	}
}

// RegisterJournalRoutes registers routes related to journals.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, scale int32, write ...gin.HandlerFunc) {
	h := newJournalHandler(journalService, scale)

	journals := rg.Group("/journals")
	{
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.POST("", chain(write, h.createJournal)...)
		journals.PUT("/:id", chain(write, h.updateJournal)...)
		journals.DELETE("/:id", chain(write, h.deleteJournal)...)
		journals.POST("/:id/post", chain(write, h.postJournal)...)
		journals.POST("/:id/reverse", chain(write, h.reverseJournal)...)
	}
}

// createJournal godoc
// @Summary Create a journal
// @Description Stores a draft. With post=true the draft is posted right away; a rejected post leaves the draft stored.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.JournalPayload true "Journal header and lines"
// @Param   post query bool false "Post the draft immediately"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 422 {object} map[string]interface{} "Rejected by a ledger rule"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var payload dto.JournalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err, "CreateJournal body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	req, err := payload.ToCreateRequest(h.scale)
	if err != nil {
		respondError(c, err, h.scale, "create journal")
		return
	}

	postNow, _ := strconv.ParseBool(c.Query("post"))
	logger.Info("Received request to create journal", slog.Int("lines", len(req.Lines)), slog.Bool("post", postNow))

	var journal *domain.Journal
	if postNow {
		journal, err = h.journalService.BuildAndPost(c.Request.Context(), req, actor, middleware.GetCapabilitiesFromContext(c))
	} else {
		journal, err = h.journalService.CreateDraft(c.Request.Context(), req, actor)
	}
	if err != nil {
		respondError(c, err, h.scale, "create journal")
		return
	}

	logger.Info("Journal created successfully", slog.String("journal_id", journal.JournalID), slog.String("status", string(journal.Status)))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal, h.scale))
}

// getJournal godoc
// @Summary Get a journal
// @Description Returns one journal with its lines.
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journal, err := h.journalService.GetJournal(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.scale, "get journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal, h.scale))
}

// listJournals godoc
// @Summary List journals
// @Description Returns a page of journals, newest first.
// @Tags journals
// @Produce  json
// @Param   status query string false "DRAFT, POSTED or REVERSED"
// @Param   period query string false "Period as YYYY-MM"
// @Param   limit query int false "Page size, at most 200"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListJournals query")
		return
	}

	journals, nextToken, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, h.scale, "list journals")
		return
	}

	c.JSON(http.StatusOK, dto.ListJournalsResponse{
		Journals:  dto.ToJournalResponses(journals, h.scale),
		NextToken: nextToken,
	})
}

// updateJournal godoc
// @Summary Update a draft journal
// @Description Replaces the content of a draft.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID"
// @Param   journal body dto.JournalPayload true "Journal header and lines"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /journals/{id} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var payload dto.JournalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err, "UpdateJournal body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	req, err := payload.ToUpdateRequest(h.scale)
	if err != nil {
		respondError(c, err, h.scale, "update journal")
		return
	}

	journal, err := h.journalService.UpdateDraft(c.Request.Context(), journalID, req, actor)
	if err != nil {
		respondError(c, err, h.scale, "update journal")
		return
	}

	logger.Info("Draft journal updated", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal, h.scale))
}

// deleteJournal godoc
// @Summary Delete a draft journal
// @Description Discards a draft. Posted journals can only be reversed.
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /journals/{id} [delete]
func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteDraft(c.Request.Context(), journalID, actor); err != nil {
		respondError(c, err, h.scale, "delete journal")
		return
	}

	logger.Info("Draft journal deleted", slog.String("journal_id", journalID))
	c.Status(http.StatusNoContent)
}

// postJournal godoc
// @Summary Post a draft journal
// @Description Assigns the journal number and applies the lines to account balances.
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 422 {object} map[string]interface{} "Rejected by a ledger rule"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /journals/{id}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	journal, err := h.journalService.Post(c.Request.Context(), journalID, actor, middleware.GetCapabilitiesFromContext(c))
	if err != nil {
		respondError(c, err, h.scale, "post journal")
		return
	}

	logger.Info("Journal posted", slog.String("journal_id", journal.JournalID), slog.String("number", journal.DisplayNumber()))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal, h.scale))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Posts the mirror image of a posted journal. The body is optional.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID"
// @Param   reversal body dto.ReversePayload false "Reversal date and description"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 404 {object} map[string]interface{} "Not found"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 422 {object} map[string]interface{} "Rejected by a ledger rule"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var payload dto.ReversePayload
	if err := bindOptionalJSON(c, &payload); err != nil {
		respondBindError(c, err, "ReverseJournal body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	req, err := payload.ToRequest()
	if err != nil {
		respondError(c, err, h.scale, "reverse journal")
		return
	}

	reversal, err := h.journalService.Reverse(c.Request.Context(), journalID, req, actor, middleware.GetCapabilitiesFromContext(c))
	if err != nil {
		respondError(c, err, h.scale, "reverse journal")
		return
	}

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal, h.scale))
}

// bindOptionalJSON binds the body into obj, treating an empty body as zero values.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
