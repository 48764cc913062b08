// Package errors provides the standardized error taxonomy for the search backend.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Remote model failures. All of them are absorbed before reaching an HTTP client.
	ErrCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"
	ErrCodeTransportFailure  ErrorCode = "TRANSPORT_FAILURE"
	ErrCodeUpstreamError     ErrorCode = "UPSTREAM_ERROR"
	ErrCodeMalformedReply    ErrorCode = "MALFORMED_REPLY"

	// Orchestration failure caught at an entry point.
	ErrCodeApplicationError ErrorCode = "APPLICATION_ERROR"

	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodePageFetchFailed    ErrorCode = "PAGE_FETCH_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches another *StandardError by code so errors.Is works against the
// package-level sentinels below.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrCredentialMissing  = &StandardError{Code: ErrCodeCredentialMissing}
	ErrTransportFailure   = &StandardError{Code: ErrCodeTransportFailure}
	ErrUpstreamError      = &StandardError{Code: ErrCodeUpstreamError}
	ErrMalformedReply     = &StandardError{Code: ErrCodeMalformedReply}
	ErrApplicationError   = &StandardError{Code: ErrCodeApplicationError}
	ErrStorageUnavailable = &StandardError{Code: ErrCodeStorageUnavailable}
	ErrInvalidRequest     = &StandardError{Code: ErrCodeInvalidRequest}
)

// ==========================
// 2. Error Constructors
// ==========================

func NewCredentialMissingError(service string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialMissing,
		Message:   fmt.Sprintf("%s API key not configured", service),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewTransportFailureError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailure,
		Message:   "Remote model request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError records a non-2xx reply. The body is truncated to keep logs bounded.
func NewUpstreamError(status int, body string) *StandardError {
	if len(body) > 512 {
		body = body[:512]
	}
	return &StandardError{
		Code:      ErrCodeUpstreamError,
		Message:   fmt.Sprintf("Remote model returned status %d", status),
		Details:   body,
		Retryable: status >= 500,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

func NewMalformedReplyError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedReply,
		Message:   "Remote model reply is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewApplicationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationError,
		Message:   "Unexpected error while processing request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewStorageUnavailableError(store string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageUnavailable,
		Message:   fmt.Sprintf("Storage '%s' unavailable", store),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewPageFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePageFetchFailed,
		Message:   "Page fetch failed",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// CodeOf returns the code of the first StandardError in err's chain.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeApplicationError
}

// StatusOf returns the upstream HTTP status recorded by NewUpstreamError, or 0.
func StatusOf(err error) int {
	var stdErr *StandardError
	if errors.As(err, &stdErr) && stdErr.Metadata != nil {
		if s, ok := stdErr.Metadata["status"].(int); ok {
			return s
		}
	}
	return 0
}

func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTransportFailure, ErrCodeStorageUnavailable:
		return true
	}
	return false
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CREDENTIAL"):
		return "AUTH"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "UPSTREAM") || strings.Contains(codeStr, "REPLY"):
		return "AI"
	case strings.Contains(codeStr, "STORAGE"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "FETCH"):
		return "CONTENT"
	default:
		return "INTERNAL"
	}
}
