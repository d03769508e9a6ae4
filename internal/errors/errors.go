// Package errors defines custom error types for better error handling and debugging.
// SyncError provides context-aware error reporting with type classification.
package errors

import (
	"errors"
	"fmt"
)

// SyncError represents errors that occur during catalog sync and review processing
type SyncError struct {
	Type    string
	Message string
	Cause   error
}

func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	// ErrorTypeRetryable marks transient transport failures eligible for backoff retry.
	ErrorTypeRetryable = "RETRYABLE"
	// ErrorTypeRetriesExhausted marks a retryable operation that ran out of attempts.
	ErrorTypeRetriesExhausted = "RETRIES_EXHAUSTED"
	// ErrorTypeFatalRecord marks a malformed candidate record; skip it, continue the page.
	ErrorTypeFatalRecord = "FATAL_RECORD"
	// ErrorTypeFatalYear marks a first-page failure; skip the year, continue the batch.
	ErrorTypeFatalYear = "FATAL_YEAR"
	// ErrorTypeFatalRun marks a run-level failure raised before any network call.
	ErrorTypeFatalRun = "FATAL_RUN"

	ErrorTypeNotFound   = "NOT_FOUND"
	ErrorTypeValidation = "VALIDATION"
	ErrorTypeAPIFailure = "API_FAILURE"
)

// NewSyncError creates a new SyncError
func NewSyncError(errorType, message string, cause error) *SyncError {
	return &SyncError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewRetryableError wraps a transient transport failure.
func NewRetryableError(message string, cause error) *SyncError {
	return NewSyncError(ErrorTypeRetryable, message, cause)
}

// NewRetriesExhaustedError wraps the last cause after the retry bound is spent.
func NewRetriesExhaustedError(message string, cause error) *SyncError {
	return NewSyncError(ErrorTypeRetriesExhausted, message, cause)
}

// NewFatalRecordError marks a single candidate as unprocessable.
func NewFatalRecordError(message string, cause error) *SyncError {
	return NewSyncError(ErrorTypeFatalRecord, message, cause)
}

// NewFatalYearError marks a whole year as unprocessable.
func NewFatalYearError(year int, cause error) *SyncError {
	return NewSyncError(ErrorTypeFatalYear, fmt.Sprintf("year %d sync failed", year), cause)
}

// NewFatalRunError marks the entire sync run as unstartable.
func NewFatalRunError(message string) *SyncError {
	return NewSyncError(ErrorTypeFatalRun, message, nil)
}

// NewNotFoundError reports an entity that does not resolve.
func NewNotFoundError(entity, id string) *SyncError {
	return NewSyncError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", entity, id), nil)
}

// NewValidationError reports input rejected before persistence.
func NewValidationError(message string) *SyncError {
	return NewSyncError(ErrorTypeValidation, message, nil)
}

// NewAPIFailureError reports a well-formed error response from the catalog provider.
func NewAPIFailureError(message string, cause error) *SyncError {
	return NewSyncError(ErrorTypeAPIFailure, message, cause)
}

// isType reports whether err or anything it wraps is a SyncError of the given type.
func isType(err error, errorType string) bool {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Type == errorType
	}
	return false
}

// IsRetryable reports whether err is eligible for backoff retry.
func IsRetryable(err error) bool {
	return isType(err, ErrorTypeRetryable)
}

// IsRetriesExhausted reports whether err is a spent retry loop.
func IsRetriesExhausted(err error) bool {
	return isType(err, ErrorTypeRetriesExhausted)
}

// IsNotFound reports whether err is an unresolved entity lookup.
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidation reports whether err is a rejected input.
func IsValidation(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsFatalRun reports whether err aborted a sync run before any network call.
func IsFatalRun(err error) bool {
	return isType(err, ErrorTypeFatalRun)
}
