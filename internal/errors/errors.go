// Package errors provides the structured error type returned by the service layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSessionNotFound          ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired           ErrorCode = "SESSION_EXPIRED"
	ErrCodeProfileNotFound          ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeInvalidRequest           ErrorCode = "INVALID_REQUEST"
	ErrCodeStorageFailure           ErrorCode = "STORAGE_FAILURE"
	ErrCodeDocumentGenerationFailed ErrorCode = "DOCUMENT_GENERATION_FAILED"
	ErrCodeSanctionNotFound         ErrorCode = "SANCTION_NOT_FOUND"
)

// Sentinels returned by stores; wrap with %w and match with errors.Is.
var (
	ErrSessionNotFound  = stderrors.New("session not found")
	ErrSessionExpired   = stderrors.New("session expired")
	ErrProfileNotFound  = stderrors.New("profile not found")
	ErrSanctionNotFound = stderrors.New("sanction not found")
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewSessionNotFoundError reports an unknown session id.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Session not found", sessionID, false, ErrSessionNotFound)
}

// NewSessionExpiredError reports a session that outlived its TTL.
func NewSessionExpiredError(sessionID string) *StandardError {
	return newError(ErrCodeSessionExpired, "Session has expired", sessionID, false, ErrSessionExpired)
}

// NewProfileNotFoundError reports a phone number with no pre-approved profile.
func NewProfileNotFoundError(phone string) *StandardError {
	return newError(ErrCodeProfileNotFound, "No pre-approved profile for this number", phone, false, ErrProfileNotFound)
}

// NewSanctionNotFoundError reports an unknown loan id.
func NewSanctionNotFoundError(loanID string) *StandardError {
	return newError(ErrCodeSanctionNotFound, "Sanction letter not found", loanID, false, ErrSanctionNotFound)
}

// NewInvalidRequestError reports a malformed client request.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request", details, false, nil)
}

// NewStorageError wraps a retryable persistence failure.
func NewStorageError(op string, err error) *StandardError {
	details := op
	if err != nil {
		details = fmt.Sprintf("%s: %v", op, err)
	}
	return newError(ErrCodeStorageFailure, "Storage operation failed", details, true, err)
}

// NewDocumentGenerationError wraps a sanction rendering failure.
func NewDocumentGenerationError(err error) *StandardError {
	return newError(ErrCodeDocumentGenerationFailed, "Failed to generate sanction letter", err.Error(), true, err)
}

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// AsStandard extracts a StandardError from an error chain.
func AsStandard(err error) (*StandardError, bool) {
	var se *StandardError
	ok := stderrors.As(err, &se)
	return se, ok
}
