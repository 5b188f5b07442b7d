package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Filesystem errors
	ErrIOFailure         ErrorCode = "IO_FAILURE"
	ErrPermissionFailure ErrorCode = "PERMISSION_FAILURE"
	ErrResolutionFailure ErrorCode = "RESOLUTION_FAILURE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Environment errors
	ErrEnvFile   ErrorCode = "ENV_FILE"
	ErrIDERules  ErrorCode = "IDE_RULES"
	ErrBootstrap ErrorCode = "BOOTSTRAP"
)

// PostgenError represents a structured error with code and details
type PostgenError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PostgenError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PostgenError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *PostgenError) Is(target error) bool {
	var targetErr *PostgenError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PostgenError with the given code and message
func New(code ErrorCode, message string) *PostgenError {
	return &PostgenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PostgenError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PostgenError {
	return &PostgenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PostgenError
func Wrap(err error, code ErrorCode, message string) *PostgenError {
	if err == nil {
		return nil
	}
	return &PostgenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PostgenError {
	if err == nil {
		return nil
	}
	return &PostgenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// FromOS wraps a filesystem error, classifying permission problems as
// ErrPermissionFailure and everything else as ErrIOFailure. The operation
// and path are recorded as details.
func FromOS(err error, op, path string) *PostgenError {
	if err == nil {
		return nil
	}
	code := ErrIOFailure
	if errors.Is(err, fs.ErrPermission) {
		code = ErrPermissionFailure
	}
	// Already classified further down the stack
	var pgErr *PostgenError
	if errors.As(err, &pgErr) {
		code = pgErr.Code
	}
	return Wrapf(err, code, "%s %s", op, path).
		WithDetail("op", op).
		WithDetail("path", path)
}

// WithDetail adds a detail to the error
func (e *PostgenError) WithDetail(key string, value interface{}) *PostgenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PostgenError) WithDetails(details map[string]interface{}) *PostgenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pgErr *PostgenError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PostgenError
func GetErrorCode(err error) ErrorCode {
	var pgErr *PostgenError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PostgenError
func GetErrorDetails(err error) map[string]interface{} {
	var pgErr *PostgenError
	if errors.As(err, &pgErr) {
		return pgErr.Details
	}
	return nil
}
