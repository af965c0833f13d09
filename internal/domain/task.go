package domain

import (
	"fmt"
	"io"
)

const (
	StatusComplete   = "Complete"
	StatusIncomplete = "Incomplete"
)

// Task represents a named unit of work with a completion flag.
// The name is the task's only identity.
type Task struct {
	Name       string
	IsComplete bool
}

// NewTask creates a new incomplete Task with the given name.
func NewTask(name string) *Task {
	return &Task{Name: name}
}

// MarkComplete sets the completion flag.
func (t *Task) MarkComplete() {
	t.IsComplete = true
}

// MarkIncomplete clears the completion flag.
func (t *Task) MarkIncomplete() {
	t.IsComplete = false
}

// SetComplete sets the completion flag to v.
func (t *Task) SetComplete(v bool) {
	if v {
		t.MarkComplete()
		return
	}
	t.MarkIncomplete()
}

// Delete runs the task's delete side-effect: one diagnostic line on w.
func (t *Task) Delete(w io.Writer) {
	fmt.Fprintf(w, "Deleting task: %s\n", t.Name)
}

// StatusLabel returns "Complete" or "Incomplete".
func (t Task) StatusLabel() string {
	if t.IsComplete {
		return StatusComplete
	}
	return StatusIncomplete
}

// String returns the row label, e.g. "Buy milk - Incomplete".
func (t Task) String() string {
	return t.Name + " - " + t.StatusLabel()
}
