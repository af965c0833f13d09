package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/repository/sqlite"
	"task-list/internal/scheduler"
)

// DefaultKey is the slot the task list is persisted under.
const DefaultKey = "tasks"

// ErrCorruptSlot marks a slot whose value is not a serialized task list.
var ErrCorruptSlot = stderrors.New("slot does not hold a task list")

// TaskStore persists a task sequence as one serialized value in a key-value slot.
type TaskStore struct {
	repo      sqlite.Repository
	key       string
	mapper    *domain.TaskMapper
	sched     scheduler.Scheduler
	saveDelay time.Duration
	loadDelay time.Duration
}

// Options configures a TaskStore. Zero delays make every call complete without waiting.
type Options struct {
	Key       string
	SaveDelay time.Duration
	LoadDelay time.Duration
}

// New creates a TaskStore over repo.
func New(repo sqlite.Repository, sched scheduler.Scheduler, opts Options) *TaskStore {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}
	if sched == nil {
		sched = scheduler.New()
	}
	return &TaskStore{
		repo:      repo,
		key:       key,
		mapper:    domain.NewTaskMapper(),
		sched:     sched,
		saveDelay: opts.SaveDelay,
		loadDelay: opts.LoadDelay,
	}
}

// Key returns the slot key.
func (s *TaskStore) Key() string {
	return s.key
}

// Load reads the slot. An absent slot yields an empty list.
func (s *TaskStore) Load(ctx context.Context) ([]*domain.Task, error) {
	value, ok, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeTimeout) {
			return nil, err
		}
		return nil, errors.NewStoreReadError("get "+s.key, err)
	}
	if !ok {
		logging.Debugf("store: slot %q is empty\n", s.key)
		return []*domain.Task{}, nil
	}

	tasks, err := s.mapper.Unmarshal(value)
	if err != nil {
		return nil, errors.NewStoreReadError("parse "+s.key, fmt.Errorf("%w: %w", ErrCorruptSlot, err))
	}
	logging.Debugf("store: loaded %d tasks from %q\n", len(tasks), s.key)
	return tasks, nil
}

// Fetch is Load after the configured load latency.
func (s *TaskStore) Fetch(ctx context.Context) ([]*domain.Task, error) {
	if err := s.wait(ctx, "fetch "+s.key, s.loadDelay); err != nil {
		return nil, err
	}
	return s.Load(ctx)
}

// Save waits the save latency, then snapshots src and writes it to the slot.
// The snapshot is taken at write time, so changes made to src during the
// latency are included.
func (s *TaskStore) Save(ctx context.Context, src domain.Snapshotter) error {
	if err := s.wait(ctx, "save "+s.key, s.saveDelay); err != nil {
		return err
	}

	tasks := src.Snapshot()
	value, err := s.mapper.Marshal(tasks)
	if err != nil {
		return errors.NewStoreError("serialize "+s.key, err)
	}

	if err := s.repo.Set(ctx, s.key, value); err != nil {
		if errors.IsAppError(err) {
			return err
		}
		return errors.NewStoreError("save "+s.key, err)
	}
	logging.Debugf("store: saved %d tasks to %q\n", len(tasks), s.key)
	return nil
}

// Clear removes the slot. The next Load returns an empty list.
func (s *TaskStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.key); err != nil {
		if errors.IsAppError(err) {
			return err
		}
		return errors.NewStoreError("clear "+s.key, err)
	}
	logging.Debugf("store: cleared %q\n", s.key)
	return nil
}

func (s *TaskStore) wait(ctx context.Context, operation string, delay time.Duration) error {
	if err := s.sched.Sleep(ctx, delay); err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return errors.NewTimeoutError(operation, delay)
		}
		return err
	}
	return nil
}
