package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a BridgeAI error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrUnknownPlatform  ErrorCode = "UNKNOWN_PLATFORM"  // 404
	ErrNoMessagesFound  ErrorCode = "NO_MESSAGES_FOUND" // 422
	ErrClipboardFailure ErrorCode = "CLIPBOARD_FAILURE" // 500
	ErrInternal         ErrorCode = "INTERNAL"          // 500
	ErrStorageFailure   ErrorCode = "STORAGE_FAILURE"   // 503
	ErrReadinessTimeout ErrorCode = "READINESS_TIMEOUT" // 504
)

// BridgeError represents a structured error with code, status, and details.
type BridgeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *BridgeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *BridgeError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *BridgeError {
	return &BridgeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownPlatform creates a 404 error for a platform id missing from the registry.
func NewUnknownPlatform(id string) *BridgeError {
	return &BridgeError{
		Code:    ErrUnknownPlatform,
		Status:  404,
		Message: fmt.Sprintf("Unknown platform: %s", id),
		Details: map[string]any{"platform": id},
	}
}

// NewNoMessagesFound creates a 422 error when extraction produced nothing transferable.
func NewNoMessagesFound(reason string) *BridgeError {
	return &BridgeError{
		Code:    ErrNoMessagesFound,
		Status:  422,
		Message: reason,
	}
}

// NewClipboardFailure creates a 500 error when the clipboard write fails.
func NewClipboardFailure(err error) *BridgeError {
	msg := "failed to copy to clipboard"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &BridgeError{
		Code:    ErrClipboardFailure,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// NewStorageFailure creates a 503 error for persistence layer failures.
// op names the payload operation that failed (save, load, clear).
func NewStorageFailure(op string, err error) *BridgeError {
	msg := fmt.Sprintf("storage %s failed", op)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &BridgeError{
		Code:    ErrStorageFailure,
		Status:  503,
		Message: msg,
		Details: map[string]any{"op": op},
		cause:   err,
	}
}

// NewReadinessTimeout creates a 504 error when the destination input never appeared.
func NewReadinessTimeout(platform string, timeoutMs int64) *BridgeError {
	return &BridgeError{
		Code:    ErrReadinessTimeout,
		Status:  504,
		Message: "Timed out waiting for chat to load",
		Details: map[string]any{"platform": platform, "timeout_ms": timeoutMs},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *BridgeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &BridgeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error (or anything it wraps) is a BridgeError with the given code.
func Is(err error, code ErrorCode) bool {
	var bErr *BridgeError
	if stderrors.As(err, &bErr) {
		return bErr.Code == code
	}
	return false
}

// As returns the BridgeError in err's chain, if any.
func As(err error) (*BridgeError, bool) {
	var bErr *BridgeError
	if stderrors.As(err, &bErr) {
		return bErr, true
	}
	return nil, false
}
