package validation

import (
	"fmt"

	"task-list/internal/config"
)

// TaskValidator provides validation for task operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator using cfg's limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateTaskName validates a task name for insertion
func (tv *TaskValidator) ValidateTaskName(name string) error {
	ve := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(name)
	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.Add("task_name", RuleRequired, "task name is required", nil)
		return ve
	}

	if !tv.validator.IsValidTaskNameLength(trimmed) {
		max := tv.validator.TaskNameMaxLength()
		ve.Add("task_name", RuleMaxLength, fmt.Sprintf("task name must be at most %d characters long", max), trimmed)
	}
	if tv.validator.HasControlCharacters(trimmed) {
		ve.Add("task_name", RuleControlCharacter, "task name must not contain control characters", trimmed)
	}

	return ve.Err()
}

// ValidateDeleteTarget validates the name given to a delete request.
// Only emptiness is checked; any other string is looked up as-is.
func (tv *TaskValidator) ValidateDeleteTarget(name string) error {
	if !tv.validator.IsNonEmptyString(name) {
		ve := NewValidationError()
		ve.Add("task_name", RuleRequired, "task name is required", nil)
		return ve
	}
	return nil
}

// ValidateIndex validates a position within a sequence of length n
func (tv *TaskValidator) ValidateIndex(field string, index, n int) error {
	if !tv.validator.IsValidIndex(index, n) {
		ve := NewValidationError()
		ve.Add(field, RuleRange, fmt.Sprintf("no %s at position %d", field, index), index)
		return ve
	}
	return nil
}

// GetValidTaskName returns the trimmed task name if valid
func (tv *TaskValidator) GetValidTaskName(name string) (string, error) {
	if err := tv.ValidateTaskName(name); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(name), nil
}
