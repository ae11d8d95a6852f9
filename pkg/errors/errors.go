package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrConfigShape ErrorCode = "CONFIG_SHAPE"

	// Template errors
	ErrTemplateNotFound    ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateInvalid     ErrorCode = "TEMPLATE_INVALID"
	ErrMissingSubstitution ErrorCode = "MISSING_SUBSTITUTION"

	// FileSystem errors
	ErrFilesystem ErrorCode = "FILESYSTEM"
	ErrFileExists ErrorCode = "FILE_EXISTS"

	// Toolchain errors
	ErrToolchainSource  ErrorCode = "TOOLCHAIN_SOURCE"
	ErrToolchainExtract ErrorCode = "TOOLCHAIN_EXTRACT"

	// Filelist errors
	ErrTargetNotFound ErrorCode = "TARGET_NOT_FOUND"
)

// KnitkitError represents a structured error with code and details
type KnitkitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *KnitkitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *KnitkitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *KnitkitError) Is(target error) bool {
	var targetErr *KnitkitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new KnitkitError with the given code and message
func New(code ErrorCode, message string) *KnitkitError {
	return &KnitkitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new KnitkitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *KnitkitError {
	return &KnitkitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a KnitkitError
func Wrap(err error, code ErrorCode, message string) *KnitkitError {
	if err == nil {
		return nil
	}
	return &KnitkitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *KnitkitError {
	if err == nil {
		return nil
	}
	return &KnitkitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Annotatef wraps err with a new message, keeping its code and a copy of its
// details. Errors that are not KnitkitErrors get ErrUnknown.
func Annotatef(err error, format string, args ...interface{}) *KnitkitError {
	if err == nil {
		return nil
	}
	annotated := Wrapf(err, GetErrorCode(err), format, args...)
	for k, v := range GetErrorDetails(err) {
		annotated.Details[k] = v
	}
	return annotated
}

// WithDetail adds a detail to the error
func (e *KnitkitError) WithDetail(key string, value interface{}) *KnitkitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var knitErr *KnitkitError
	if errors.As(err, &knitErr) {
		return knitErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a KnitkitError
func GetErrorCode(err error) ErrorCode {
	var knitErr *KnitkitError
	if errors.As(err, &knitErr) {
		return knitErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a KnitkitError
func GetErrorDetails(err error) map[string]interface{} {
	var knitErr *KnitkitError
	if errors.As(err, &knitErr) {
		return knitErr.Details
	}
	return nil
}
