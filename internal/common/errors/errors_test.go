package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	err := NewInvalidScore("ACADEMIC", 25)

	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrCodeInvalidScore, code)

	wrapped := fmt.Errorf("submit grade: %w", err)
	assert.True(t, IsCode(wrapped, ErrCodeInvalidScore))
	assert.False(t, IsCode(wrapped, ErrCodeInvalidDecision))

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorMessage(t *testing.T) {
	err := NewTerminalStateViolation("app-1", "APPROVED")
	assert.Equal(t, "WorkflowError[TERMINAL_STATE_VIOLATION]: Application has reached a terminal status and is immutable", err.Error())
	assert.Contains(t, err.Details, "app-1")
}

func TestRetrySemantics(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeStorageFailed))
	assert.Equal(t, 2, GetRetryCount(ErrCodeConcurrencyConflict))
	assert.Equal(t, 0, GetRetryCount(ErrCodeUnauthorizedGrader))

	assert.True(t, IsRetryableErrorCode(ErrCodeStorageFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidTransition))

	assert.True(t, NewStorageFailed(errors.New("down")).Retryable)
	assert.False(t, NewUnknownApplication("app-1").Retryable)
}
