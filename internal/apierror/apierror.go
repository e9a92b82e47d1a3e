// Package apierror provides standardized error structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
//
// Business errors carry a Kind so callers can distinguish "this input is
// wrong" (Validation) from "this is disallowed" (Policy) from genuine
// conflicts and missing records, without string-matching messages.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Kind classifies a business error for HTTP mapping and client handling.
type Kind int

const (
	KindUnknown    Kind = iota
	KindValidation      // bad input shape/range — rejected before any mutation
	KindConflict        // invariant violation under concurrency
	KindNotFound        // referenced record does not exist
	KindPolicy          // business-rule refusal that is not a bug
)

// Error is a typed business error with a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func Conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func NotFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func Policy(code, msg string) *Error {
	return &Error{Kind: KindPolicy, Code: code, Message: msg}
}

// KindOf extracts the Kind from any error, KindUnknown for untyped errors.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf extracts the stable code from a typed error, "" otherwise.
func CodeOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
