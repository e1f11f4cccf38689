package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is the type of keys this package stores in request contexts.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	actorKey     = contextKey("actor")
	capsKey      = contextKey("capabilities")
)

// WithLogger stores a logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns the default logger if none is found.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithActor stores the authenticated actor and the capabilities it asserted.
func WithActor(ctx context.Context, actor string, caps domain.Capability) context.Context {
	ctx = context.WithValue(ctx, actorKey, actor)
	return context.WithValue(ctx, capsKey, caps)
}

// GetActorFromContext retrieves the authenticated actor from the request context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (string, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}

// GetCapabilitiesFromContext returns the capabilities asserted by the caller's token.
func GetCapabilitiesFromContext(c *gin.Context) domain.Capability {
	caps, _ := c.Request.Context().Value(capsKey).(domain.Capability)
	return caps
}
