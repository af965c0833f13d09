package domain

import (
	"encoding/json"
)

// TaskRecord is the serialized form of a Task in the durable slot.
// IsComplete is a pointer so that a record without the field reconstructs
// as incomplete rather than failing.
type TaskRecord struct {
	Name       string `json:"name" yaml:"name"`
	IsComplete *bool  `json:"isComplete" yaml:"isComplete"`
}

// TaskMapper handles conversion between tasks and stored records.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a Task to its record. Only name and completion are kept.
func (m *TaskMapper) ToRecord(task Task) TaskRecord {
	complete := task.IsComplete
	return TaskRecord{Name: task.Name, IsComplete: &complete}
}

// FromRecord reconstructs a Task from a record.
func (m *TaskMapper) FromRecord(rec TaskRecord) *Task {
	task := NewTask(rec.Name)
	if rec.IsComplete != nil {
		task.SetComplete(*rec.IsComplete)
	}
	return task
}

// ToRecordSlice converts tasks to records, preserving order.
func (m *TaskMapper) ToRecordSlice(tasks []Task) []TaskRecord {
	records := make([]TaskRecord, len(tasks))
	for i, task := range tasks {
		records[i] = m.ToRecord(task)
	}
	return records
}

// FromRecordSlice converts records to tasks, preserving order.
func (m *TaskMapper) FromRecordSlice(records []TaskRecord) []*Task {
	tasks := make([]*Task, len(records))
	for i, rec := range records {
		tasks[i] = m.FromRecord(rec)
	}
	return tasks
}

// Marshal encodes tasks as a JSON array of {name, isComplete}.
func (m *TaskMapper) Marshal(tasks []Task) (string, error) {
	data, err := json.Marshal(m.ToRecordSlice(tasks))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Unmarshal decodes a JSON array of records. A JSON null decodes as an empty list.
func (m *TaskMapper) Unmarshal(data string) ([]*Task, error) {
	var records []TaskRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, err
	}
	return m.FromRecordSlice(records), nil
}
