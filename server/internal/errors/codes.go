package errors

import (
	"fmt"
)

// ErrorCode represents a specific failure class of the availability pipeline.
type ErrorCode string

const (
	// ErrCodeInvalidTimezone indicates a user-supplied timezone failed validation.
	ErrCodeInvalidTimezone ErrorCode = "INVALID_TIMEZONE"
	// ErrCodeMissingFeedAddress indicates the request carried no calendar feed URL.
	ErrCodeMissingFeedAddress ErrorCode = "MISSING_FEED_ADDRESS"
	// ErrCodeUnreachableFeed indicates the feed fetch failed or returned an
	// unparseable payload.
	ErrCodeUnreachableFeed ErrorCode = "UNREACHABLE_OR_INVALID_FEED"
	// ErrCodeInvalidEngineConfiguration indicates a structurally invalid slot
	// engine configuration. This is a service bug, not a client error.
	ErrCodeInvalidEngineConfiguration ErrorCode = "INVALID_ENGINE_CONFIGURATION"
	// ErrCodeRouteNotFound indicates an unmatched route.
	ErrCodeRouteNotFound ErrorCode = "ROUTE_NOT_FOUND"
	// ErrCodeInternal indicates an unclassified internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// PipelineError is a structured error carrying a failure class through the
// availability pipeline so the HTTP layer can map it to a status code.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for the pipeline's failure classes.

// InvalidTimezone creates an invalid timezone error for the offending value.
func InvalidTimezone(tz string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeInvalidTimezone,
		Message: fmt.Sprintf("invalid timezone: %s", tz),
		Cause:   cause,
	}
}

// MissingFeedAddress creates a missing feed address error.
func MissingFeedAddress() *PipelineError {
	return &PipelineError{Code: ErrCodeMissingFeedAddress, Message: "iCal URL is required"}
}

// UnreachableFeed creates an unreachable or invalid feed error.
func UnreachableFeed(cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeUnreachableFeed,
		Message: "calendar feed is unreachable or not a valid iCal document",
		Cause:   cause,
	}
}

// InvalidEngineConfiguration creates an engine misconfiguration error.
func InvalidEngineConfiguration(cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeInvalidEngineConfiguration,
		Message: "slot engine configuration is invalid",
		Cause:   cause,
	}
}

// Internal wraps an unclassified failure.
func Internal(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Code == code
	}
	return false
}

// CodeOf extracts the error code from any error.
// Returns the provided default code if the error is not a PipelineError.
func CodeOf(err error, defaultCode ErrorCode) ErrorCode {
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Code
	}
	return defaultCode
}
