package domain

import (
	"fmt"
)

// Snapshotter yields a copy of a task sequence at the moment it is called.
type Snapshotter interface {
	Snapshot() []Task
}

// Collection is an ordered sequence of tasks addressed by position.
type Collection interface {
	Snapshotter

	Append(task *Task) error
	RemoveAt(index int) (*Task, error)
	Get(index int) (*Task, bool)
	Len() int
	// IndexOf returns the position of the first task named name, or -1.
	IndexOf(name string) int
	Replace(tasks []*Task)
	Clear()
}

// List is the plain slice-backed Collection. It is not safe for concurrent use.
type List struct {
	tasks []*Task
}

// NewList creates a List holding tasks in order.
func NewList(tasks ...*Task) *List {
	l := &List{}
	l.Replace(tasks)
	return l
}

func (l *List) Append(task *Task) error {
	if task == nil {
		return fmt.Errorf("cannot append nil task")
	}
	l.tasks = append(l.tasks, task)
	return nil
}

func (l *List) RemoveAt(index int) (*Task, error) {
	if index < 0 || index >= len(l.tasks) {
		return nil, fmt.Errorf("index %d out of range [0,%d)", index, len(l.tasks))
	}
	removed := l.tasks[index]
	l.tasks = append(l.tasks[:index], l.tasks[index+1:]...)
	return removed, nil
}

func (l *List) Get(index int) (*Task, bool) {
	if index < 0 || index >= len(l.tasks) {
		return nil, false
	}
	return l.tasks[index], true
}

func (l *List) Len() int {
	return len(l.tasks)
}

func (l *List) IndexOf(name string) int {
	for i, task := range l.tasks {
		if task.Name == name {
			return i
		}
	}
	return -1
}

func (l *List) Replace(tasks []*Task) {
	l.tasks = make([]*Task, 0, len(tasks))
	for _, task := range tasks {
		if task != nil {
			l.tasks = append(l.tasks, task)
		}
	}
}

func (l *List) Clear() {
	l.tasks = nil
}

func (l *List) Snapshot() []Task {
	out := make([]Task, len(l.tasks))
	for i, task := range l.tasks {
		out[i] = *task
	}
	return out
}

// Tasks is a fixed task sequence, used as a save payload that is not a live collection.
type Tasks []*Task

func (ts Tasks) Snapshot() []Task {
	out := make([]Task, 0, len(ts))
	for _, task := range ts {
		if task != nil {
			out = append(out, *task)
		}
	}
	return out
}
