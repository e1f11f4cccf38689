package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates the caller did not assert the capability an operation needs.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an infrastructure failure.
var ErrInternal = errors.New("internal error")

// Posting failures. Every one of them leaves the ledger untouched.
var (
	ErrEmptyJournal      = errors.New("journal has no lines")
	ErrMalformedLine     = errors.New("malformed journal line")
	ErrUnknownAccount    = errors.New("unknown or inactive account")
	ErrUnbalancedJournal = errors.New("journal debits and credits differ")
	ErrPeriodLocked      = errors.New("accounting period is locked")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNumberingConflict = errors.New("concurrent journal numbering conflict")
)

// AppError wraps an infrastructure error with an HTTP-ish code and a message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap keeps sentinel errors of the cause reachable, falling back to ErrInternal.
func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInternal}
	}
	return []error{e.Err, ErrInternal}
}

// NewNotFoundError returns an error that matches ErrNotFound.
func NewNotFoundError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// NewValidationError returns an error that matches ErrValidation.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// LineError reports a line with both or neither side set, or a negative amount.
type LineError struct {
	Index  int
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Index, e.Reason)
}

func (e *LineError) Unwrap() error { return ErrMalformedLine }

// UnknownAccountError reports a line whose account does not resolve or is inactive.
type UnknownAccountError struct {
	Index    int
	Ref      string
	Inactive bool
}

func (e *UnknownAccountError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("line %d: account %q is inactive", e.Index, e.Ref)
	}
	return fmt.Sprintf("line %d: account %q does not exist", e.Index, e.Ref)
}

func (e *UnknownAccountError) Unwrap() error { return ErrUnknownAccount }

// UnbalancedError carries the integer totals of an unbalanced journal, in minor units.
type UnbalancedError struct {
	Debit  int64
	Credit int64
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("debits %d do not equal credits %d (difference %d)", e.Debit, e.Credit, e.Difference())
}

// Difference is debit minus credit.
func (e *UnbalancedError) Difference() int64 { return e.Debit - e.Credit }

func (e *UnbalancedError) Unwrap() error { return ErrUnbalancedJournal }

// PeriodLockedError reports why a period does not accept postings.
type PeriodLockedError struct {
	Period string
	Status string
	Reason string
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("period %s is %s: %s", e.Period, e.Status, e.Reason)
}

func (e *PeriodLockedError) Unwrap() error { return ErrPeriodLocked }

// TransitionError reports a status change the state machine does not allow.
type TransitionError struct {
	Entity string
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// IsRetryable reports whether the operation may succeed when retried unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNumberingConflict)
}
