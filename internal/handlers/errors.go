package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bukubesar/internal/apperrors"
	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Error codes returned in the "code" field of error bodies.
const (
	codeValidation         = "VALIDATION_ERROR"
	codeEmptyJournal       = "EMPTY_JOURNAL"
	codeMalformedLine      = "MALFORMED_LINE"
	codeUnknownAccount     = "UNKNOWN_ACCOUNT"
	codeUnbalanced         = "UNBALANCED_JOURNAL"
	codePeriodLocked       = "PERIOD_LOCKED"
	codeInvalidTransition  = "INVALID_TRANSITION"
	codeNumberingConflict  = "NUMBERING_CONFLICT"
	codeConflict           = "CONFLICT"
	codeDuplicate          = "DUPLICATE"
	codeNotFound           = "NOT_FOUND"
	codeForbidden          = "FORBIDDEN"
	codeUnauthorized       = "UNAUTHORIZED"
	codeInternal           = "INTERNAL_ERROR"
	internalFailureMessage = "Internal server error"
)

// errorResponse maps a service error to an HTTP status and a JSON body that
// carries the failure details.
func errorResponse(err error, scale int32) (int, gin.H) {
	body := gin.H{"error": err.Error()}

	var (
		lineErr       *apperrors.LineError
		unknownErr    *apperrors.UnknownAccountError
		unbalancedErr *apperrors.UnbalancedError
		lockedErr     *apperrors.PeriodLockedError
		transitionErr *apperrors.TransitionError
	)

	switch {
	case errors.As(err, &lineErr):
		body["code"] = codeMalformedLine
		body["lineIndex"] = lineErr.Index
		return http.StatusBadRequest, body
	case errors.Is(err, apperrors.ErrEmptyJournal):
		body["code"] = codeEmptyJournal
		return http.StatusBadRequest, body
	case errors.Is(err, apperrors.ErrValidation):
		body["code"] = codeValidation
		return http.StatusBadRequest, body
	case errors.As(err, &unknownErr):
		body["code"] = codeUnknownAccount
		body["lineIndex"] = unknownErr.Index
		body["account"] = unknownErr.Ref
		body["inactive"] = unknownErr.Inactive
		return http.StatusUnprocessableEntity, body
	case errors.As(err, &unbalancedErr):
		body["code"] = codeUnbalanced
		body["totalDebit"] = domain.Amount(unbalancedErr.Debit).Decimal(scale)
		body["totalCredit"] = domain.Amount(unbalancedErr.Credit).Decimal(scale)
		body["difference"] = domain.Amount(unbalancedErr.Difference()).Decimal(scale)
		return http.StatusUnprocessableEntity, body
	case errors.As(err, &lockedErr):
		body["code"] = codePeriodLocked
		body["period"] = lockedErr.Period
		body["status"] = lockedErr.Status
		body["reason"] = lockedErr.Reason
		return http.StatusConflict, body
	case errors.As(err, &transitionErr):
		body["code"] = codeInvalidTransition
		body["entity"] = transitionErr.Entity
		body["from"] = transitionErr.From
		body["to"] = transitionErr.To
		return http.StatusConflict, body
	case errors.Is(err, apperrors.ErrNumberingConflict):
		body["code"] = codeNumberingConflict
		body["retryable"] = true
		return http.StatusConflict, body
	case errors.Is(err, apperrors.ErrDuplicate):
		body["code"] = codeDuplicate
		return http.StatusConflict, body
	case errors.Is(err, apperrors.ErrConflict):
		body["code"] = codeConflict
		return http.StatusConflict, body
	case errors.Is(err, apperrors.ErrNotFound):
		body["code"] = codeNotFound
		return http.StatusNotFound, body
	case errors.Is(err, apperrors.ErrForbidden):
		body["code"] = codeForbidden
		return http.StatusForbidden, body
	default:
		return http.StatusInternalServerError, gin.H{"error": internalFailureMessage, "code": codeInternal}
	}
}

// respondError logs err at a level matching its status and writes the error body.
func respondError(c *gin.Context, err error, scale int32, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, body := errorResponse(err, scale)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
	} else {
		logger.Warn("Rejected request to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

// respondBindError writes a 400 for a request body or query that failed to bind.
func respondBindError(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error(), "code": codeValidation})
}

// requireActor returns the authenticated actor, writing a 401 when there is none.
func requireActor(c *gin.Context) (string, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": codeUnauthorized})
		return "", false
	}
	return actor, true
}
