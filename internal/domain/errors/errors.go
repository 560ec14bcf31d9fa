package errors

import (
	"errors"
	"strings"
)

var (
	ErrAlreadyExists           = errors.New("already exists")
	ErrNotFound                = errors.New("not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccessDenied            = errors.New("access denied")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrQuoteAlreadyAccepted    = errors.New("another quote is already accepted")
)

// Machine-readable error codes crossing the HTTP boundary.
const (
	CodeValidationError       = "ValidationError"
	CodeMissingRequiredFields = "MissingRequiredFields"
	CodeMissingCustomerInfo   = "MissingCustomerInfo"
	CodeInvalidEmailFormat    = "InvalidEmailFormat"
	CodeInvalidBudgetRange    = "InvalidBudgetRange"
	CodeMissingQuoteInfo      = "MissingQuoteInfo"
	CodeMissingQuoteID        = "MissingQuoteId"
	CodeInvalidPaymentAmount  = "InvalidPaymentAmount"
)

// FieldError names the offending field of a validation failure.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is a recoverable input failure translated to a
// structured 400 response.
type ValidationError struct {
	Code   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Code
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Code + ": " + strings.Join(parts, "; ")
}

// NewValidation builds a ValidationError with a single field message.
func NewValidation(code, field, message string) *ValidationError {
	return &ValidationError{Code: code, Fields: []FieldError{{Field: field, Message: message}}}
}

// AsValidation extracts a ValidationError if err carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
