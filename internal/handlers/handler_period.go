package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests related to closing periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: ps}
}

// RegisterPeriodRoutes registers routes related to closing periods.
func RegisterPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade, write ...gin.HandlerFunc) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/:period", h.getPeriod)
		periods.GET("/:period/can-post", h.canPost)
		periods.GET("/:period/events", h.listEvents)
		periods.POST("/:period/soft-close", chain(write, h.softClose)...)
		periods.POST("/:period/hard-close", chain(write, h.hardClose)...)
		periods.POST("/:period/reopen", chain(write, h.reopen)...)
	}
}

// periodKey parses the :period path parameter, writing a 400 when it is malformed.
func periodKey(c *gin.Context) (domain.PeriodKey, bool) {
	key, err := domain.ParsePeriodKey(c.Param("period"))
	if err != nil {
		respondError(c, err, 0, "parse period")
		return domain.PeriodKey{}, false
	}
	return key, true
}

// listPeriods godoc
// @Summary List closing periods
// @Description Returns the stored periods of a year.
// @Tags periods
// @Produce  json
// @Param   year query int true "Calendar year"
// @Success 200 {object} map[string][]dto.PeriodResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	var params dto.ListPeriodsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "ListPeriods query")
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), params.Year)
	if err != nil {
		respondError(c, err, 0, "list periods")
		return
	}

	c.JSON(http.StatusOK, gin.H{"periods": dto.ToPeriodResponses(periods)})
}

// getPeriod godoc
// @Summary Get a closing period
// @Description Returns a period. One that was never closed reports OPEN.
// @Tags periods
// @Produce  json
// @Param   period path string true "Period as YYYY-MM"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /periods/{period} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	key, ok := periodKey(c)
	if !ok {
		return
	}

	period, err := h.periodService.GetPeriod(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, 0, "get period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// canPost godoc
// @Summary Check whether posting is allowed
// @Description Tells whether the caller may post on a date of the period.
// @Tags periods
// @Produce  json
// @Param   period path string true "Period as YYYY-MM"
// @Param   date query string false "Date as YYYY-MM-DD"
// @Success 200 {object} dto.PostingDecisionResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /periods/{period}/can-post [get]
func (h *periodHandler) canPost(c *gin.Context) {
	key, ok := periodKey(c)
	if !ok {
		return
	}

	var params dto.CanPostParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "CanPost query")
		return
	}
	date, err := params.DateIn(key)
	if err != nil {
		respondError(c, err, 0, "check period")
		return
	}

	decision, err := h.periodService.CanPost(c.Request.Context(), date, middleware.GetCapabilitiesFromContext(c))
	if err != nil {
		respondError(c, err, 0, "check period")
		return
	}

	c.JSON(http.StatusOK, dto.ToPostingDecisionResponse(date, decision))
}

// listEvents godoc
// @Summary List period events
// @Description Returns the revision log of a period in order.
// @Tags periods
// @Produce  json
// @Param   period path string true "Period as YYYY-MM"
// @Success 200 {object} map[string][]dto.PeriodEventResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /periods/{period}/events [get]
func (h *periodHandler) listEvents(c *gin.Context) {
	key, ok := periodKey(c)
	if !ok {
		return
	}

	events, err := h.periodService.ListPeriodEvents(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, 0, "list period events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": dto.ToPeriodEventResponses(events)})
}

// softClose godoc
// @Summary Soft-close a period
// @Description Moves an open period to SOFT_CLOSED. The body is optional.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period path string true "Period as YYYY-MM"
// @Param   close body dto.SoftClosePayload false "Draft journals to leave out of the draft check"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /periods/{period}/soft-close [post]
func (h *periodHandler) softClose(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	key, ok := periodKey(c)
	if !ok {
		return
	}

	var payload dto.SoftClosePayload
	if err := bindOptionalJSON(c, &payload); err != nil {
		respondBindError(c, err, "SoftClose body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	period, err := h.periodService.SoftClose(c.Request.Context(), key, payload.ExcludedJournalIDs, actor)
	if err != nil {
		respondError(c, err, 0, "soft-close period")
		return
	}

	logger.Info("Period soft-closed", slog.String("period", key.String()), slog.Int("excluded_drafts", len(payload.ExcludedJournalIDs)))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// hardClose godoc
// @Summary Hard-close a period
// @Description Moves a soft-closed period to HARD_CLOSED.
// @Tags periods
// @Produce  json
// @Param   period path string true "Period as YYYY-MM"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /periods/{period}/hard-close [post]
func (h *periodHandler) hardClose(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	key, ok := periodKey(c)
	if !ok {
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	period, err := h.periodService.HardClose(c.Request.Context(), key, actor)
	if err != nil {
		respondError(c, err, 0, "hard-close period")
		return
	}

	logger.Info("Period hard-closed", slog.String("period", key.String()))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// reopen godoc
// @Summary Reopen a period
// @Description Moves a closed period back to OPEN. Needs the reopen capability and a reason.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   period path string true "Period as YYYY-MM"
// @Param   reopen body dto.ReopenPayload true "Reason"
// @Success 200 {object} dto.PeriodResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /periods/{period}/reopen [post]
func (h *periodHandler) reopen(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	key, ok := periodKey(c)
	if !ok {
		return
	}

	var payload dto.ReopenPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err, "Reopen body")
		return
	}

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	period, err := h.periodService.Reopen(c.Request.Context(), key, payload.Reason, actor, middleware.GetCapabilitiesFromContext(c))
	if err != nil {
		respondError(c, err, 0, "reopen period")
		return
	}

	logger.Warn("Period reopened", slog.String("period", key.String()), slog.String("reason", payload.Reason), slog.Int("reopen_count", period.ReopenCount))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
