package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific failure class in the note pipeline.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid caller input (empty title,
	// content, query or missing user ID). Never retryable, never a system fault.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeDimensionMismatch indicates the embedding provider returned a
	// vector whose length differs from the configured dimensionality. This
	// signals configuration drift and should alert operators.
	ErrCodeDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"
	// ErrCodeProviderUnavailable indicates a failure calling the embedding
	// provider. Retryable by the caller.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeStoreUnavailable indicates a failure reaching or querying the
	// vector store. Retryable by the caller.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeStoreInconsistency indicates an id returned by a successful
	// insert could not be re-read. Internal consistency fault.
	ErrCodeStoreInconsistency ErrorCode = "STORE_INCONSISTENCY"
	// ErrCodeNotFound indicates the requested record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// AppError is a structured error carried from the core services to the
// transport boundary, where Code maps to an HTTP status.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the caller may reasonably retry the request.
// The core itself never retries; this only informs the transport mapping.
func (e *AppError) Retryable() bool {
	return e.Code == ErrCodeProviderUnavailable || e.Code == ErrCodeStoreUnavailable
}

// Convenience constructors for common error kinds.

// InvalidArgument creates a caller-input error.
func InvalidArgument(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// DimensionMismatch creates a dimension mismatch error.
func DimensionMismatch(expected, got int) *AppError {
	return &AppError{
		Code:    ErrCodeDimensionMismatch,
		Message: fmt.Sprintf("expected %d embedding dimensions, got %d", expected, got),
	}
}

// ProviderUnavailable wraps an embedding provider failure.
func ProviderUnavailable(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeProviderUnavailable, Message: msg, Cause: cause}
}

// StoreUnavailable wraps a vector store failure.
func StoreUnavailable(msg string, cause error) *AppError {
	return &AppError{Code: ErrCodeStoreUnavailable, Message: msg, Cause: cause}
}

// StoreInconsistency creates an internal consistency fault.
func StoreInconsistency(msg string) *AppError {
	return &AppError{Code: ErrCodeStoreInconsistency, Message: msg}
}

// NotFound creates a not-found error.
func NotFound(msg string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: msg}
}

// CodeOf extracts the error code from err, or empty when err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
