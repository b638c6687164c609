package linking

import "errors"

// Code classifies a user-facing failure.
type Code string

const (
	CodeAuthentication  Code = "authentication"
	CodeAccountExists   Code = "account_exists"
	CodeValidation      Code = "validation"
	CodeExternalService Code = "external_service"
	CodeConfiguration   Code = "configuration"
)

// Error is the coarse user-facing error raised by orchestrator
// operations. The raw external cause is wrapped for logs but Message is
// what callers may show.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func newError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf returns the classification of err, or "" for untyped errors.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
