package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ArgumentInvalid indicates a malformed value passed to an entity constructor or setter
	ArgumentInvalid ErrorCode = "ARGUMENT_INVALID"
	// EmptyInput indicates an encoder received no entities
	EmptyInput ErrorCode = "EMPTY_INPUT"
	// UnsupportedFormat indicates an unknown format identifier
	UnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// FieldAccess indicates a field value could not be read
	FieldAccess ErrorCode = "FIELD_ACCESS"
	// NotFound indicates a dataset or record doesn't exist
	NotFound ErrorCode = "NOT_FOUND"
	// Unauthorized indicates a missing or invalid API token
	Unauthorized ErrorCode = "UNAUTHORIZED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// ChangeInput suggests correcting the request
	ChangeInput FixActionType = "change-input"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
}

// CatalogError represents an error with code, message, and suggestions
type CatalogError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a CatalogError with the default suggested fixes for its code
func New(code ErrorCode, message string) *CatalogError {
	return &CatalogError{
		Code:           code,
		Message:        message,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CatalogError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a CatalogError around an underlying cause
func Wrap(code ErrorCode, message string, cause error) *CatalogError {
	e := New(code, message)
	e.cause = cause
	return e
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CatalogError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a CatalogError with the same code.
// This lets callers write errors.Is(err, errors.New(errors.EmptyInput, "")).
func (e *CatalogError) Is(target error) bool {
	t, ok := target.(*CatalogError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails adds details to the error
func (e *CatalogError) WithDetails(details interface{}) *CatalogError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first CatalogError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var ce *CatalogError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	UnsupportedFormat: {
		{
			Type:        RunCommand,
			Command:     "catalog formats",
			Description: "List supported response formats",
		},
	},
	EmptyInput: {
		{
			Type:        ChangeInput,
			Description: "Request a dataset that contains at least one record",
		},
	},
	Unauthorized: {
		{
			Type:        RunCommand,
			Command:     "catalog token new",
			Description: "Generate an API token and configure server.tokenHash",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
