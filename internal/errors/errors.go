package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error code
type ErrorCode string

const (
	// Transport and envelope errors surfaced by the catalogue client
	CodeTransport       ErrorCode = "TRANSPORT_ERROR"
	CodeInvalidStatus   ErrorCode = "INVALID_STATUS"
	CodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
	CodeEmptyResponse   ErrorCode = "EMPTY_RESPONSE"

	// Per-entry schedule errors, absorbed by the deriver
	CodeParse          ErrorCode = "PARSE_ERROR"
	CodeDurationFormat ErrorCode = "DURATION_FORMAT_ERROR"

	// Entity decode errors, absorbed by batch decoders
	CodeDecode ErrorCode = "DECODE_ERROR"

	// Validation errors
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Store errors
	CodeStore           ErrorCode = "STORE_ERROR"
	CodeStoreConnection ErrorCode = "STORE_CONNECTION_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"

	// Config errors
	CodeConfig        ErrorCode = "CONFIG_ERROR"
	CodeMissingConfig ErrorCode = "MISSING_CONFIG"
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"

	// Internal errors
	CodeInternal ErrorCode = "INTERNAL_ERROR"
	CodeUnknown  ErrorCode = "UNKNOWN_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// TransportError creates a transport error from an underlying HTTP failure
func TransportError(message string, err error) *AppError {
	return Wrap(err, CodeTransport, message)
}

// InvalidStatusError creates an error for a non-200 HTTP response
func InvalidStatusError(status int, path string) *AppError {
	return New(CodeInvalidStatus, fmt.Sprintf("unexpected status %d", status)).
		WithContext("status", status).
		WithContext("path", path)
}

// InvalidResponseError creates an error for a 200 response whose payload
// does not have the expected shape
func InvalidResponseError(message string, err error) *AppError {
	return Wrap(err, CodeInvalidResponse, message)
}

// EmptyResponseError creates an error for a well-formed but logically empty
// response. Callers treat this as a normal state, not a failure.
func EmptyResponseError(message string) *AppError {
	return New(CodeEmptyResponse, message)
}

// ParseError creates a parse error
func ParseError(message string, err error) *AppError {
	return Wrap(err, CodeParse, message)
}

// DurationFormatError creates an error for a malformed broadcast length
func DurationFormatError(raw string) *AppError {
	return New(CodeDurationFormat, fmt.Sprintf("malformed broadcast length %q", raw))
}

// DecodeError creates an entity decode error
func DecodeError(entity, reason string) *AppError {
	return New(CodeDecode, fmt.Sprintf("cannot decode %s: %s", entity, reason))
}

// ValidationError creates a validation error
func ValidationError(message string) *AppError {
	return New(CodeValidation, message)
}

// StoreError creates a snapshot store error
func StoreError(message string, err error) *AppError {
	return Wrap(err, CodeStore, message)
}

// ConfigError creates a configuration error
func ConfigError(message string, err error) *AppError {
	if err != nil {
		return Wrap(err, CodeConfig, message)
	}
	return New(CodeConfig, message)
}

// NotFoundError creates a not found error
func NotFoundError(resource, identifier string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier))
}

// IsRetryable determines if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeTransport, CodeStoreConnection:
			return true
		}
	}
	return false
}

// IsEmptyResponse reports whether an error is the benign empty-response case,
// e.g. no live playlist currently scheduled
func IsEmptyResponse(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeEmptyResponse
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeValidation || appErr.Code == CodeInvalidInput
	}
	return false
}
