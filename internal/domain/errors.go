package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Quiz generation pipeline errors
	CodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	CodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	CodeParseFailed      ErrorCode = "PARSE_FAILED"
	CodeInvalidQuizData  ErrorCode = "INVALID_QUIZ_DATA"

	// Request validation
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeMissingField ErrorCode = "MISSING_FIELD"
	CodeInvalidValue ErrorCode = "INVALID_VALUE"
	CodeOutOfRange   ErrorCode = "OUT_OF_RANGE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a diagnostic key/value to the error.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Details: e.Details,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// HasCode reports whether err (or anything it wraps) is a DomainError with code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost DomainError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, true
	}
	return "", false
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("quiz not found with ID: %s", quizID), nil).WithDetail("quiz_id", quizID)
}

// NewInputError reports a violated caller precondition. It is raised before
// any call to the text generator.
func NewInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

// NewGenerationError wraps a failure of the text generator, including
// cancellation of the caller's context.
func NewGenerationError(err error) *DomainError {
	return NewError(CodeGenerationFailed, "quiz generation failed", err)
}

// NewExtractionError reports a response without any brace-delimited span.
func NewExtractionError(err error) *DomainError {
	return NewError(CodeExtractionFailed, "response contains no JSON object", err)
}

// NewParseError reports that neither parse tier produced a value. excerpt
// must already be bounded by the caller.
func NewParseError(excerpt string, err error) *DomainError {
	return NewError(CodeParseFailed, "response not parseable as JSON", err).WithDetail("excerpt", excerpt)
}

// NewValidationError reports quiz data that parsed but is semantically unusable.
func NewValidationError(message string) *DomainError {
	return NewError(CodeInvalidQuizData, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// MarkDocumentError tags a DomainError as caused by a caller-supplied
// document rather than model output. Other errors are returned unchanged.
func MarkDocumentError(err error) error {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		domainErr.WithDetail("source", "document")
	}
	return err
}

// IsDocumentError reports whether err was tagged by MarkDocumentError.
func IsDocumentError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Details["source"] == "document"
}

// FieldErrors collects field-level validation failures for one request.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	msg := fe[0].Field + ": " + fe[0].Message
	if len(fe) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(fe)-1)
	}
	return msg
}

// Add appends a field error.
func (fe *FieldErrors) Add(field string, code ErrorCode, message string) {
	*fe = append(*fe, FieldError{Field: field, Code: code, Message: message})
}

// AsError returns nil when no field errors were collected, otherwise a
// DomainError with code CodeValidation wrapping the list.
func (fe FieldErrors) AsError() error {
	if len(fe) == 0 {
		return nil
	}
	return NewError(CodeValidation, "request validation failed", fe).WithDetail("fields", []FieldError(fe))
}
