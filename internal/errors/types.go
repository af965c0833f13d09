package errors

import (
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDuplicate
	ErrorTypeStore
	ErrorTypeInvalidInput
	ErrorTypeTimeout
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeValidation:   "validation",
	ErrorTypeNotFound:     "not_found",
	ErrorTypeDuplicate:    "duplicate",
	ErrorTypeStore:        "store",
	ErrorTypeInvalidInput: "invalid_input",
	ErrorTypeTimeout:      "timeout",
}

func (et ErrorType) String() string {
	if name, ok := errorTypeNames[et]; ok {
		return name
	}
	return "unknown"
}

// AppError is the error every task list layer returns. Subject names what
// the error is about: a task name, a store operation or an input field.
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Subject string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Type == appErr.Type && e.Code == appErr.Code
	}
	return false
}

func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}
