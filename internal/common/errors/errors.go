// Package errors provides standardized error handling for the generation pipeline.
package errors

import (
	"fmt"
	"time"

	"program-pipeline/internal/models"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"

	ErrCodeGenerationTimeout    ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationCallFailed ErrorCode = "GENERATION_CALL_FAILED"
	ErrCodeResponseParseFailed  ErrorCode = "RESPONSE_PARSE_FAILED"
	ErrCodeProgramSchemaInvalid ErrorCode = "PROGRAM_SCHEMA_INVALID"

	ErrCodeRecordNotFound ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeRecordConflict ErrorCode = "RECORD_CONFLICT"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseQueryFailed      ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeDatabaseWriteFailed      ErrorCode = "DATABASE_WRITE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is safe to
// surface to callers; Details carries internal diagnostics and never leaves
// the process except through logs.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewProfileValidationFailedError creates a non-retryable profile shape error.
func NewProfileValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileValidationFailed,
		Message:   "Onboarding profile failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationTimeoutError creates a retryable model call timeout error.
func NewGenerationTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Program generation timed out",
		Details:   "model call exceeded the per-attempt timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationCallFailedError creates a retryable model call error.
func NewGenerationCallFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationCallFailed,
		Message:   "Program generation is temporarily unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseParseFailedError creates a retryable malformed response error;
// a regenerated response may well parse.
func NewResponseParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseParseFailed,
		Message:   "Generated program could not be read",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProgramSchemaInvalidError creates a non-retryable error for a program
// rejected by the guardian's schema stage.
func NewProgramSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProgramSchemaInvalid,
		Message:   "Generated program failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable missing record error.
func NewRecordNotFoundError(recordID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Generation record not found",
		Details:   fmt.Sprintf("recordId: %s", recordID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordConflictError creates a non-retryable lease conflict error: the
// record is already owned by another in-flight generation.
func NewRecordConflictError(recordID string, status models.GenerationStatus) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordConflict,
		Message:   "Generation is already in progress for this record",
		Details:   fmt.Sprintf("recordId: %s, status: %s", recordID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailedError creates a retryable query error.
func NewDatabaseQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseWriteFailedError creates a retryable write error.
func NewDatabaseWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseWriteFailed,
		Message:   "Database write error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure without leaking its detail.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// GetRetryCount returns the recommended attempt budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGenerationCallFailed,
		ErrCodeResponseParseFailed,
		ErrCodeDatabaseQueryFailed,
		ErrCodeDatabaseWriteFailed,
		ErrCodeDatabaseConnectionFailed:
		return 3 // Retryable technical errors

	case ErrCodeGenerationTimeout:
		return 2 // Timeouts get a partial retry budget

	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// ==========================
// 4. Boundary Conversion
// ==========================

// Normalize ensures any error is a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// ToRecordError converts a StandardError into the sanitized payload persisted
// on a failed generation record. The caller-facing message is the generic
// constructor message and the internal code is preserved for diagnostics.
// Details carry through only for codes whose details we compose ourselves,
// such as the guardian's schema findings; raw provider and database errors
// stay out.
func ToRecordError(stdErr *StandardError) *models.RecordError {
	recordErr := &models.RecordError{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
	}
	switch stdErr.Code {
	case ErrCodeProgramSchemaInvalid, ErrCodeProfileValidationFailed:
		recordErr.Detail = stdErr.Details
	}
	return recordErr
}
