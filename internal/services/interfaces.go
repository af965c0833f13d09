package services

import (
	"context"
	"fmt"
	"strings"

	"task-list/internal/domain"
)

// AddMode selects when an added task is appended and persisted.
type AddMode string

const (
	AddImmediate AddMode = "immediate"
	AddDelayed   AddMode = "delayed"
)

// ParseAddMode converts user input to an AddMode. Empty input is immediate.
func ParseAddMode(s string) (AddMode, error) {
	switch AddMode(strings.ToLower(strings.TrimSpace(s))) {
	case AddImmediate, "":
		return AddImmediate, nil
	case AddDelayed:
		return AddDelayed, nil
	default:
		return "", fmt.Errorf("unknown add mode %q (expected immediate or delayed)", s)
	}
}

// User-facing notice texts
const (
	MsgTaskAdded         = "Task Added"
	MsgTaskDeleted       = "Task Deleted"
	MsgTaskNotFound      = "Task not found!"
	MsgEnterTask         = "Please enter a task!"
	MsgEnterDeleteTarget = "Please enter a task to delete!"
	MsgTasksFetched      = "Tasks fetched"
	MsgNoTasks           = "No tasks available"
	MsgTasksSaved        = "Tasks saved successfully"
	MsgTasksCleared      = "All tasks have been cleared."
	MsgUnreadableTasks   = "Stored tasks could not be read; starting with an empty list."

	PromptDeleteIncomplete = "The task \"%s\" is incomplete. Do you want to delete it?"
	PromptClearAll         = "Are you sure you want to clear all tasks?"
)

// Confirmer answers yes/no prompts.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

var (
	// AlwaysConfirm accepts every prompt.
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
	// NeverConfirm declines every prompt.
	NeverConfirm Confirmer = ConfirmFunc(func(string) bool { return false })
)

// TaskStore is the durable slot the service persists to.
type TaskStore interface {
	Load(ctx context.Context) ([]*domain.Task, error)
	Fetch(ctx context.Context) ([]*domain.Task, error)
	Save(ctx context.Context, src domain.Snapshotter) error
	Clear(ctx context.Context) error
}

// Labels are the status texts used in row labels.
type Labels struct {
	Complete   string
	Incomplete string
}

// DefaultLabels returns "Complete" and "Incomplete".
func DefaultLabels() Labels {
	return Labels{Complete: domain.StatusComplete, Incomplete: domain.StatusIncomplete}
}

// Row is one rendered line of a view: a label and a checkbox bound to a task position.
type Row struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
	Label   string `json:"label"`
}
