package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeConfig indicates missing or invalid configuration (e.g., no API URL).
	ErrCodeConfig ErrorCode = "config"
	// ErrCodeNetwork indicates a transport failure or non-2xx upstream response.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeMalformedPayload indicates a payload that failed to parse or is
	// missing required fields. User-visible handling matches ErrCodeNetwork.
	ErrCodeMalformedPayload ErrorCode = "malformed_payload"
	// ErrCodeResolution indicates no viewer could be derived from the payload.
	ErrCodeResolution ErrorCode = "resolution"
	// ErrCodeAuthExchange indicates the authorization code exchange failed.
	ErrCodeAuthExchange ErrorCode = "auth_exchange"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Config creates a new Config error.
func Config(message string) *AppError {
	return &AppError{Code: ErrCodeConfig, Message: message}
}

// Configf creates a new Config error with formatted message.
func Configf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeConfig, Message: fmt.Sprintf(format, args...)}
}

// Network creates a new Network error.
func Network(message string) *AppError {
	return &AppError{Code: ErrCodeNetwork, Message: message}
}

// Networkf creates a new Network error with formatted message.
func Networkf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNetwork, Message: fmt.Sprintf(format, args...)}
}

// MalformedPayload creates a new MalformedPayload error.
func MalformedPayload(message string) *AppError {
	return &AppError{Code: ErrCodeMalformedPayload, Message: message}
}

// MalformedPayloadf creates a new MalformedPayload error with formatted message.
func MalformedPayloadf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeMalformedPayload, Message: fmt.Sprintf(format, args...)}
}

// Resolution creates a new Resolution error.
func Resolution(message string) *AppError {
	return &AppError{Code: ErrCodeResolution, Message: message}
}

// Resolutionf creates a new Resolution error with formatted message.
func Resolutionf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeResolution, Message: fmt.Sprintf(format, args...)}
}

// AuthExchange creates a new AuthExchange error.
func AuthExchange(message string) *AppError {
	return &AppError{Code: ErrCodeAuthExchange, Message: message}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsConfig checks if an error is a Config error.
func IsConfig(err error) bool {
	return isCode(err, ErrCodeConfig)
}

// IsNetwork checks if an error is a Network error. MalformedPayload errors also
// report true here since they are presented to users as network failures.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork) || isCode(err, ErrCodeMalformedPayload)
}

// IsMalformedPayload checks if an error is a MalformedPayload error.
func IsMalformedPayload(err error) bool {
	return isCode(err, ErrCodeMalformedPayload)
}

// IsResolution checks if an error is a Resolution error.
func IsResolution(err error) bool {
	return isCode(err, ErrCodeResolution)
}

// IsAuthExchange checks if an error is an AuthExchange error.
func IsAuthExchange(err error) bool {
	return isCode(err, ErrCodeAuthExchange)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
