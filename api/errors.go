package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeMissingArgument    ErrorCode = "missing_argument"
	CodeUnexpectedArgument ErrorCode = "unexpected_argument"
	CodeInvalidArgument    ErrorCode = "invalid_argument"
	CodeTransport          ErrorCode = "transport"
	CodeUnknownMember      ErrorCode = "unknown_member"
	CodeInvalidResponse    ErrorCode = "invalid_response"
	CodeUnknownMethod      ErrorCode = "unknown_method"
	CodeDuplicateMethod    ErrorCode = "duplicate_method"
	CodeInternal           ErrorCode = "internal"
)

// Sentinels for use with errors.Is. They match any *Error carrying the same code.
var (
	ErrMissingArgument    = &Error{Code: CodeMissingArgument}
	ErrUnexpectedArgument = &Error{Code: CodeUnexpectedArgument}
	ErrInvalidArgument    = &Error{Code: CodeInvalidArgument}
	ErrTransport          = &Error{Code: CodeTransport}
	ErrUnknownMember      = &Error{Code: CodeUnknownMember}
	ErrInvalidResponse    = &Error{Code: CodeInvalidResponse}
	ErrUnknownMethod      = &Error{Code: CodeUnknownMethod}
	ErrDuplicateMethod    = &Error{Code: CodeDuplicateMethod}
)

// Error is the error type returned by every stage of an invocation.
// Domain errors raised by response validators use the same type with their own codes.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel (an *Error with no message) carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithDetails returns a new Error with the provided map merged into details.
// For multiple details, this is more efficient than chaining WithDetail calls.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
		Cause:   e.Cause,
	}
}

// WithCause returns a new Error wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// TransportError wraps a failure returned by the transport collaborator.
// The cause is kept verbatim and stays reachable through errors.Is and errors.As.
func TransportError(method string, cause error) *Error {
	return &Error{
		Code:    CodeTransport,
		Message: fmt.Sprintf("calling %s", method),
		Details: map[string]any{"method": method},
		Cause:   cause,
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// validationMessage flattens validator errors into a single message.
func validationMessage(err error) string {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) || len(valErrs) == 0 {
		return err.Error()
	}
	return formatValidationError(valErrs[0])
}
