package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/bukubesar/internal/core/domain"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock    func() time.Time
	idGen    func() string
	location *time.Location
}

func newBaseService(o options) BaseService {
	return BaseService{clock: o.clock, idGen: o.idGen, location: o.location}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a business rejection; these are expected outcomes, not failures.
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

func (s *BaseService) newID() string {
	if s.idGen != nil {
		return s.idGen()
	}
	return uuid.NewString()
}

// today is the current calendar date in the ledger's time zone.
func (s *BaseService) today() time.Time {
	return domain.DateOf(s.now(), s.location)
}

// options configures the services; every constructor accepts the same set.
type options struct {
	clock       func() time.Time
	idGen       func() string
	location    *time.Location
	maxAttempts int
	listeners   []PeriodEventListener
}

// ServiceOption is a functional option for configuring services
type ServiceOption func(*options)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) ServiceOption {
	return func(o *options) { o.clock = clock }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(o *options) { o.idGen = gen }
}

// WithLedgerLocation sets the time zone whose calendar decides "today".
func WithLedgerLocation(loc *time.Location) ServiceOption {
	return func(o *options) { o.location = loc }
}

// WithMaxPostAttempts bounds how often a post is retried after a numbering conflict.
func WithMaxPostAttempts(n int) ServiceOption {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithPeriodEventListener registers a callback for committed period transitions.
func WithPeriodEventListener(l PeriodEventListener) ServiceOption {
	return func(o *options) { o.listeners = append(o.listeners, l) }
}

func buildOptions(opts []ServiceOption) options {
	o := options{location: time.UTC, maxAttempts: defaultMaxPostAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
