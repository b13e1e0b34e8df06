package errors

import (
	"fmt"
)

// ErrorType represents different categories of pipeline errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypePreprocessing ErrorType = "preprocessing"
	ErrorTypeExtraction    ErrorType = "extraction"
	ErrorTypeStorage       ErrorType = "storage"
)

// PipelineError represents a structured pipeline error. Errors of this type
// never cross the public extraction API; they are flattened into the Error
// field of an ExtractionResult before being returned.
type PipelineError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *PipelineError {
	return &PipelineError{Type: ErrorTypeValidation, Message: message, Cause: cause}
}

// NewPreprocessingError creates a new preprocessing error
func NewPreprocessingError(message string, cause error) *PipelineError {
	return &PipelineError{Type: ErrorTypePreprocessing, Message: message, Cause: cause}
}

// NewExtractionError creates a new extraction error
func NewExtractionError(message string, cause error) *PipelineError {
	return &PipelineError{Type: ErrorTypeExtraction, Message: message, Cause: cause}
}

// NewStorageError creates a new storage error
func NewStorageError(message string, cause error) *PipelineError {
	return &PipelineError{Type: ErrorTypeStorage, Message: message, Cause: cause}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if pipeErr, ok := err.(*PipelineError); ok {
		return pipeErr.Type == errorType
	}
	return false
}
