package errors

import (
	"errors"
	"fmt"
)

const (
	codeStoreWrite = "STORE_ERROR"
	codeStoreRead  = "STORE_READ_ERROR"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    "VALIDATION_FAILED",
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Subject: identifier,
	}
}

// NewDuplicateNameError creates an error for a task name that is already taken.
// The collection guard never returns it to callers; it only feeds notices.
func NewDuplicateNameError(name string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicate,
		Code:    "DUPLICATE_NAME",
		Message: fmt.Sprintf("Task \"%s\" already exists. Cannot add it again.", name),
		Subject: name,
	}
}

// NewStoreError creates an error for a failed write to the durable store
func NewStoreError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStore,
		Code:    codeStoreWrite,
		Message: fmt.Sprintf("store operation failed: %s", operation),
		Subject: operation,
		Cause:   cause,
	}
}

// NewStoreReadError creates an error for a slot that could not be read or parsed
func NewStoreReadError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStore,
		Code:    codeStoreRead,
		Message: fmt.Sprintf("store read failed: %s", operation),
		Subject: operation,
		Cause:   cause,
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Code:    "INVALID_INPUT",
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Subject: field,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Code:    "TIMEOUT",
		Message: fmt.Sprintf("operation timed out: %s after %v", operation, timeout),
		Subject: operation,
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeDuplicate, ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeStore:
			if appErr.Code == codeStoreRead {
				return "Error fetching tasks"
			}
			return "Error saving tasks"
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeDuplicate, ErrorTypeInvalidInput:
			return false // user errors
		default:
			return true
		}
	}
	return true
}
