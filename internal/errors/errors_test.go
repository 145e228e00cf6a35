package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardErrorFormatting(t *testing.T) {
	err := NewSessionNotFoundError("abc")
	assert.Equal(t, "StandardError[SESSION_NOT_FOUND]: Session not found", err.Error())
	assert.False(t, err.Retryable)
	assert.Equal(t, "abc", err.Details)
}

func TestStandardErrorUnwrapsToSentinel(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewSessionExpiredError("abc"))
	assert.True(t, stderrors.Is(wrapped, ErrSessionExpired))
	assert.False(t, stderrors.Is(wrapped, ErrSessionNotFound))

	se, ok := AsStandard(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSessionExpired, se.Code)
}

func TestStorageErrorIsRetryable(t *testing.T) {
	err := NewStorageError("save session", stderrors.New("connection refused"))
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Details, "connection refused")
	assert.False(t, IsRetryable(stderrors.New("plain")))
}

func TestWithMetadata(t *testing.T) {
	err := NewInvalidRequestError("message is required").WithMetadata("field", "message")
	assert.Equal(t, "message", err.Metadata["field"])
}
