// Package domainerrors provides coded errors for the order workflow engine.
// Services return these so transports can translate failures into stable
// HTTP responses without string matching. Infrastructure facts (not found,
// conflict at the storage level) live in pkg/platform/sentinel; this package
// is the domain-facing taxonomy.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeValidation   Code = "validation"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal"

	// CodeIllegalTransition marks a requested state change that the order's
	// transition table does not allow from its current state.
	CodeIllegalTransition Code = "illegal_transition"

	// CodeNoteRequired marks a transition that matched a rule but arrived
	// without the mandatory back-office note. Callers should re-prompt the
	// actor rather than retry.
	CodeNoteRequired Code = "note_required"
)

// FieldError is a single field-level validation failure. The engine
// aggregates these; it never returns just the first one.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a coded domain error, optionally wrapping a cause and carrying
// field-level detail for validation failures.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap annotates a cause with a code and message. A nil cause returns nil.
func Wrap(cause error, code Code, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: cause}
}

// NewValidation builds a CodeValidation error carrying the full ordered list
// of field failures.
func NewValidation(fields []FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf("%d validation error(s)", len(fields)),
		Fields:  fields,
	}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability in tests.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf extracts the field error list from a validation error, or nil.
func FieldsOf(err error) []FieldError {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}

// ToHTTPStatus maps a code to its HTTP response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeValidation, CodeNoteRequired:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeIllegalTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
