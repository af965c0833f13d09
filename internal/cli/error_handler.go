package cli

import (
	"fmt"

	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/validation"
)

// ErrorHandler turns command errors into messages fit for the terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	eh.log(err)

	if ve, ok := validation.AsValidationError(err); ok {
		return fmt.Errorf("%s", ve.UserMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}

	return err
}

func (eh *ErrorHandler) log(err error) {
	if errors.ShouldLogError(err) {
		logging.Debugf("error [%s]: %v\n", errors.GetErrorCode(err), err)
	}
}
