package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"task-list/internal/config"
)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator using default limits
func NewValidator() *Validator {
	return &Validator{}
}

// NewValidatorWithConfig creates a new validator that reads limits from cfg
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string's rune count is within [min, max]
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskNameLength checks a task name against the configured maximum
func (v *Validator) IsValidTaskNameLength(name string) bool {
	return v.IsValidStringLength(name, 1, v.TaskNameMaxLength())
}

// HasControlCharacters reports whether s contains newlines, tabs or other control runes.
// A row label is a single line, so names must not contain them.
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidIndex checks that index addresses an element of a sequence of length n
func (v *Validator) IsValidIndex(index, n int) bool {
	return index >= 0 && index < n
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TaskNameMaxLength returns the configured maximum task name length or the default
func (v *Validator) TaskNameMaxLength() int {
	if v.config != nil && v.config.Validation.TaskNameMaxLength > 0 {
		return v.config.Validation.TaskNameMaxLength
	}
	return 255
}
