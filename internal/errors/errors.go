package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypePath indicates an invalid input path (missing or not a directory)
	ErrorTypePath ErrorType = "path"
	// ErrorTypeDecode indicates a file that could not be decoded as YAML
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeSchemaMismatch indicates a document that is not a valid Application
	ErrorTypeSchemaMismatch ErrorType = "schema_mismatch"
	// ErrorTypeValidation indicates output that failed JSON Schema validation
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeWrite indicates a filesystem failure while writing output
	ErrorTypeWrite ErrorType = "write"
	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of the same type
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Type == appErr.Type
	}
	return false
}

// NewPathError creates a new path error
func NewPathError(message string, cause error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypePath,
		Message: message,
		Cause:   cause,
		Details: details,
	}
}

// NewDecodeError creates a new decode error
func NewDecodeError(message string, cause error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: message,
		Cause:   cause,
		Details: details,
	}
}

// NewSchemaMismatchError creates a new schema mismatch error
func NewSchemaMismatchError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeSchemaMismatch,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: details,
	}
}

// NewWriteError creates a new write error
func NewWriteError(message string, cause error, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeWrite,
		Message: message,
		Cause:   cause,
		Details: details,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Cause:   cause,
	}
}

// IsPathError checks if the error is a path error
func IsPathError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypePath
	}
	return false
}

// IsDecodeError checks if the error is a decode error
func IsDecodeError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeDecode
	}
	return false
}

// IsSchemaMismatchError checks if the error is a schema mismatch error
func IsSchemaMismatchError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeSchemaMismatch
	}
	return false
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}

// IsWriteError checks if the error is a write error
func IsWriteError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeWrite
	}
	return false
}

// GetErrorDetails extracts details from an AppError
func GetErrorDetails(err error) map[string]interface{} {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
