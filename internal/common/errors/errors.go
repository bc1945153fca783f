// Package errors provides the standardized error taxonomy for the approval workflow.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeUnknownApplication       ErrorCode = "UNKNOWN_APPLICATION"
	ErrCodeUnauthorizedGrader       ErrorCode = "UNAUTHORIZED_GRADER"
	ErrCodeUnauthorizedApprover     ErrorCode = "UNAUTHORIZED_APPROVER"
	ErrCodeInvalidScore             ErrorCode = "INVALID_SCORE"
	ErrCodeInvalidDecision          ErrorCode = "INVALID_DECISION"
	ErrCodeInvalidTransition        ErrorCode = "INVALID_TRANSITION"
	ErrCodeMisconfiguredScholarship ErrorCode = "MISCONFIGURED_SCHOLARSHIP"
	ErrCodeTerminalStateViolation   ErrorCode = "TERMINAL_STATE_VIOLATION"
	ErrCodeConcurrencyConflict      ErrorCode = "CONCURRENCY_CONFLICT"
	ErrCodeValidationFailed         ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeStorageFailed            ErrorCode = "STORAGE_OPERATION_FAILED"
)

// WorkflowError is a structured application error carrying a stable code.
type WorkflowError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("WorkflowError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the error code from err, if it carries one.
func CodeOf(err error) (ErrorCode, bool) {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Code, true
	}
	return "", false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}

// ==========================
// Error Constructors
// ==========================

// NewUnknownApplication creates a non-retryable unknown application error.
func NewUnknownApplication(applicationID string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeUnknownApplication,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedGrader creates a non-retryable authorization error for graders.
func NewUnauthorizedGrader(graderID, scholarshipID string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeUnauthorizedGrader,
		Message:   "Grader is not assigned to the scholarship committee",
		Details:   fmt.Sprintf("graderId: %s, scholarshipId: %s", graderID, scholarshipID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnauthorizedApprover creates a non-retryable authorization error for approvers.
func NewUnauthorizedApprover(approverID, scholarshipID string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeUnauthorizedApprover,
		Message:   "Approver is not assigned to the scholarship reviewer set",
		Details:   fmt.Sprintf("approverId: %s, scholarshipId: %s", approverID, scholarshipID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidScore creates a non-retryable score validation error.
func NewInvalidScore(category string, score int) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeInvalidScore,
		Message:   "Rubric score out of range",
		Details:   fmt.Sprintf("category: %s, score: %d, valid range: [0,20]", category, score),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidDecision creates a non-retryable decision validation error.
func NewInvalidDecision(decision string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeInvalidDecision,
		Message:   "Decision must be APPROVE or REJECT",
		Details:   fmt.Sprintf("decision: %s", decision),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransition creates a non-retryable state machine error.
func NewInvalidTransition(status, trigger string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeInvalidTransition,
		Message:   "Operation not permitted in the application's current status",
		Details:   fmt.Sprintf("status: %s, trigger: %s", status, trigger),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMisconfiguredScholarship creates a non-retryable scholarship configuration error.
func NewMisconfiguredScholarship(scholarshipID, details string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeMisconfiguredScholarship,
		Message:   "Scholarship cannot reach quorum",
		Details:   fmt.Sprintf("scholarshipId: %s, %s", scholarshipID, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTerminalStateViolation creates a non-retryable terminal state error.
func NewTerminalStateViolation(applicationID, status string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeTerminalStateViolation,
		Message:   "Application has reached a terminal status and is immutable",
		Details:   fmt.Sprintf("applicationId: %s, status: %s", applicationID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConcurrencyConflict creates a retryable optimistic concurrency error.
func NewConcurrencyConflict(applicationID string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeConcurrencyConflict,
		Message:   "Concurrent update conflict, retries exhausted",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailed creates a non-retryable application validation error.
func NewValidationFailed(details string) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeValidationFailed,
		Message:   "Application data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailed creates a retryable persistence error.
func NewStorageFailed(err error) *WorkflowError {
	return &WorkflowError{
		Code:      ErrCodeStorageFailed,
		Message:   "Persistent store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// BPMN Error Integration
// ==========================

// GetRetryCount returns the recommended Zeebe retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStorageFailed:
		return 3
	case ErrCodeConcurrencyConflict:
		return 2
	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}
