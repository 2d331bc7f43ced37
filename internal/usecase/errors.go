package usecase

import "fmt"

type ErrorCode string

const (
	ErrorInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrorUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrorQuotaDenied     ErrorCode = "QUOTA_DENIED"
	ErrorRateLimited     ErrorCode = "RATE_LIMITED"
	ErrorPaymentRequired ErrorCode = "PAYMENT_REQUIRED"
	ErrorUpstream        ErrorCode = "UPSTREAM_ERROR"
	ErrorUnavailable     ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrorInternal        ErrorCode = "INTERNAL_ERROR"
)

// Error carries a stable code for the handler boundary, a short machine
// reason for logs, and the wrapped cause. User-facing messages are chosen
// at the boundary, never taken from the cause.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
