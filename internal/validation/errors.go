package validation

import (
	stderrors "errors"
	"strings"
)

// Rule names the check a field failed
type Rule string

const (
	RuleRequired         Rule = "required"
	RuleMaxLength        Rule = "max_length"
	RuleControlCharacter Rule = "control_character"
	RuleRange            Rule = "range"
)

// FieldError is one failed rule on one input field
type FieldError struct {
	Field   string
	Rule    Rule
	Message string
	Value   interface{}
}

func (fe FieldError) Error() string {
	return fe.Field + ": " + fe.Message
}

// ValidationError collects every rule an input failed
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation error"
	}
	messages := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		messages[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Add records a failed rule
func (ve *ValidationError) Add(field string, rule Rule, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Rule: rule, Message: message, Value: value})
}

// Err returns ve if any rule failed, otherwise nil
func (ve *ValidationError) Err() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// UserMessage returns the message of the first failed rule, which is what a
// notice shows
func (ve *ValidationError) UserMessage() string {
	if len(ve.Errors) == 0 {
		return "Input validation failed"
	}
	return ve.Errors[0].Message
}

// AsValidationError finds a ValidationError in err's chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
