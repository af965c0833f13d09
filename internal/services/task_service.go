package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"task-list/internal/config"
	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/notify"
	"task-list/internal/repository/sqlite"
	"task-list/internal/scheduler"
	"task-list/internal/store"
	"task-list/internal/validation"
)

// Options configures a TaskService
type Options struct {
	DeferredAddDelay time.Duration
	Validator        *validation.TaskValidator
	Labels           Labels
	// MaxViews caps the registered views; the oldest is dropped past it.
	MaxViews int
}

// DefaultMaxViews is the view cap used when Options.MaxViews is not set
const DefaultMaxViews = 64

// TaskService owns the in-memory task collection and runs every task
// operation against it. Construct one per process and share it.
type TaskService struct {
	mu        sync.Mutex
	tasks     *domain.Guarded
	views     map[string]*View
	viewOrder []string
	maxViews  int
	// appending is the notifier of the add holding the lock, if any
	appending notify.Notifier

	store            TaskStore
	sched            scheduler.Scheduler
	notifier         notify.Notifier
	validator        *validation.TaskValidator
	labels           Labels
	deferredAddDelay time.Duration
}

// NewTaskService creates a TaskService with an empty collection
func NewTaskService(st TaskStore, sched scheduler.Scheduler, notifier notify.Notifier, opts Options) *TaskService {
	if sched == nil {
		sched = scheduler.New()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	if opts.Validator == nil {
		opts.Validator = validation.NewTaskValidator()
	}
	if opts.Labels.Complete == "" || opts.Labels.Incomplete == "" {
		opts.Labels = DefaultLabels()
	}
	if opts.MaxViews <= 0 {
		opts.MaxViews = DefaultMaxViews
	}

	s := &TaskService{
		views:            make(map[string]*View),
		maxViews:         opts.MaxViews,
		store:            st,
		sched:            sched,
		notifier:         notifier,
		validator:        opts.Validator,
		labels:           opts.Labels,
		deferredAddDelay: opts.DeferredAddDelay,
	}
	s.tasks = domain.NewGuarded(domain.NewList(), s.onDuplicate)
	return s
}

// NewTaskServiceFromConfig wires a store and scheduler over repo using cfg
func NewTaskServiceFromConfig(cfg *config.Config, repo sqlite.Repository, notifier notify.Notifier) *TaskService {
	sched := scheduler.New()
	st := store.New(repo, sched, store.Options{
		Key:       cfg.Storage.Key,
		SaveDelay: cfg.Timing.SaveDelay,
		LoadDelay: cfg.Timing.LoadDelay,
	})
	return NewTaskService(st, sched, notifier, Options{
		DeferredAddDelay: cfg.Timing.DeferredAddDelay,
		Validator:        validation.NewTaskValidatorWithConfig(cfg),
		Labels:           Labels{Complete: cfg.Display.CompleteLabel, Incomplete: cfg.Display.IncompleteLabel},
	})
}

// Init loads the stored list into the collection without the fetch latency.
// A slot that does not parse is reported and treated as empty, so the list
// can still be cleared or overwritten.
func (s *TaskService) Init(ctx context.Context) error {
	tasks, err := s.store.Load(ctx)
	if stderrors.Is(err, store.ErrCorruptSlot) {
		logging.Debugf("service: %v\n", err)
		notify.With(ctx, s.notifier).Notify(notify.KindFailure, MsgUnreadableTasks)
		tasks, err = nil, nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks.Replace(tasks)
	s.mu.Unlock()
	logging.Debugf("service: initialised with %d tasks\n", len(tasks))
	return nil
}

// Add validates name and appends a new incomplete task, then persists the
// collection. In delayed mode the append and save happen after the deferred
// add delay and Add returns at once; the outcome is only reported as notices.
func (s *TaskService) Add(ctx context.Context, name string, mode AddMode) error {
	notifier := notify.With(ctx, s.notifier)
	trimmed, err := s.validator.GetValidTaskName(name)
	if err != nil {
		if strings.TrimSpace(name) == "" {
			notifier.Notify(notify.KindValidation, MsgEnterTask)
			return errors.NewValidationError("empty name", err)
		}
		notifier.Notify(notify.KindValidation, validationMessage(err))
		return errors.NewValidationError("invalid task name", err)
	}

	switch mode {
	case AddImmediate, "":
		return s.addNow(ctx, trimmed)
	case AddDelayed:
		detached := context.WithoutCancel(ctx)
		logging.Debugf("service: deferring add of %q by %s\n", trimmed, s.deferredAddDelay)
		s.sched.After(s.deferredAddDelay, func() {
			if err := s.addNow(detached, trimmed); err != nil {
				logging.Debugf("service: deferred add of %q failed: %v\n", trimmed, err)
			}
		})
		return nil
	default:
		return errors.NewInvalidInputError("mode", mode, "must be immediate or delayed")
	}
}

func (s *TaskService) addNow(ctx context.Context, name string) error {
	notifier := notify.With(ctx, s.notifier)

	s.mu.Lock()
	// A duplicate is suppressed by the guard; the flow continues as a success.
	s.appending = notifier
	err := s.tasks.Append(domain.NewTask(name))
	s.appending = nil
	s.mu.Unlock()
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeInvalidInput, "cannot add task")
	}

	if err := s.store.Save(ctx, s.locked(s.tasks)); err != nil {
		s.reportFailure(notifier, err)
		return err
	}
	notifier.Notify(notify.KindSuccess, MsgTaskAdded)
	return nil
}

// Delete removes the first task named exactly name and persists the
// collection. An incomplete task is only removed if confirmer accepts; a
// declined prompt returns false and a nil error.
func (s *TaskService) Delete(ctx context.Context, name string, confirmer Confirmer) (bool, error) {
	notifier := notify.With(ctx, s.notifier)
	if err := s.validator.ValidateDeleteTarget(name); err != nil {
		notifier.Notify(notify.KindValidation, MsgEnterDeleteTarget)
		return false, errors.NewValidationError("empty target", err)
	}
	if confirmer == nil {
		confirmer = NeverConfirm
	}

	s.mu.Lock()
	task, ok := s.find(name)
	incomplete := ok && !task.IsComplete
	s.mu.Unlock()
	if !ok {
		notifier.Notify(notify.KindFailure, MsgTaskNotFound)
		return false, errors.NewNotFoundError("task", name)
	}

	if incomplete && !confirmer.Confirm(fmt.Sprintf(PromptDeleteIncomplete, name)) {
		logging.Debugf("service: delete of %q declined\n", name)
		return false, nil
	}

	s.mu.Lock()
	index := s.tasks.IndexOf(name)
	if index < 0 {
		// Removed by another operation while the prompt was open.
		s.mu.Unlock()
		notifier.Notify(notify.KindFailure, MsgTaskNotFound)
		return false, errors.NewNotFoundError("task", name)
	}
	removed, err := s.tasks.RemoveAt(index)
	if err == nil {
		removed.Delete(logging.Console())
	}
	s.mu.Unlock()
	if err != nil {
		return false, errors.WrapError(err, errors.ErrorTypeInvalidInput, "cannot remove task")
	}

	if err := s.store.Save(ctx, s.locked(s.tasks)); err != nil {
		s.reportFailure(notifier, err)
		return true, err
	}
	notifier.Notify(notify.KindSuccess, MsgTaskDeleted)
	return true, nil
}

// Toggle sets the completion flag of the task at index. It is not persisted.
func (s *TaskService) Toggle(index int, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validator.ValidateIndex("task", index, s.tasks.Len()); err != nil {
		return errors.NewInvalidInputError("index", index, validationMessage(err))
	}
	task, _ := s.tasks.Get(index)
	task.SetComplete(checked)
	return nil
}

// BulkSave writes each rendered row's checkbox into the task at the row's
// index and persists exactly those tasks. Tasks without a row are not part
// of the payload.
func (s *TaskService) BulkSave(ctx context.Context, view *View) error {
	rows := view.Rows()

	s.mu.Lock()
	payload := make(domain.Tasks, 0, len(rows))
	for _, row := range rows {
		task, ok := s.tasks.Get(row.Index)
		if !ok {
			logging.Debugf("service: row %d has no task, skipped\n", row.Index)
			continue
		}
		task.SetComplete(row.Checked)
		payload = append(payload, task)
	}
	s.mu.Unlock()

	notifier := notify.With(ctx, s.notifier)
	if err := s.store.Save(ctx, s.locked(payload)); err != nil {
		notifier.Notify(notify.KindFailure, "Error saving tasks: "+errors.GetUserMessage(err))
		return err
	}
	notifier.Notify(notify.KindSuccess, MsgTasksSaved)
	return nil
}

// ClearAll erases the slot, the collection and every open view's rows if
// confirmer accepts.
func (s *TaskService) ClearAll(ctx context.Context, confirmer Confirmer) (bool, error) {
	if confirmer == nil || !confirmer.Confirm(PromptClearAll) {
		return false, nil
	}

	notifier := notify.With(ctx, s.notifier)
	if err := s.store.Clear(ctx); err != nil {
		s.reportFailure(notifier, err)
		return false, err
	}
	notifier.Notify(notify.KindSuccess, MsgTasksCleared)

	s.mu.Lock()
	s.tasks.Clear()
	views := make([]*View, 0, len(s.views))
	for _, v := range s.views {
		views = append(views, v)
	}
	s.mu.Unlock()

	for _, v := range views {
		v.Clear()
	}
	return true, nil
}

// Tasks returns a snapshot of the collection
func (s *TaskService) Tasks() []domain.Task {
	return s.locked(s.tasks).Snapshot()
}

// Reload replaces the collection with the stored list, after the fetch latency
func (s *TaskService) Reload(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks.Replace(tasks)
	return s.tasks.Snapshot(), nil
}

// Wait blocks until every deferred add has finished
func (s *TaskService) Wait(ctx context.Context) error {
	return s.sched.Wait(ctx)
}

// Label renders a task as "name - Status" using the configured labels
func (s *TaskService) Label(task domain.Task) string {
	status := s.labels.Incomplete
	if task.IsComplete {
		status = s.labels.Complete
	}
	return task.Name + " - " + status
}

func (s *TaskService) find(name string) (*domain.Task, bool) {
	index := s.tasks.IndexOf(name)
	if index < 0 {
		return nil, false
	}
	return s.tasks.Get(index)
}

// onDuplicate runs inside Append, with s.mu held by addNow.
func (s *TaskService) onDuplicate(name string) {
	notifier := s.appending
	if notifier == nil {
		notifier = s.notifier
	}
	notifier.Notify(notify.KindDuplicate, errors.NewDuplicateNameError(name).Message)
}

func (s *TaskService) reportFailure(notifier notify.Notifier, err error) {
	if errors.ShouldLogError(err) {
		logging.Debugf("service: %v\n", err)
	}
	notifier.Notify(notify.KindFailure, "Error: "+errors.GetUserMessage(err))
}

// locked returns a Snapshotter that reads src under the service lock, so a
// save taken at write time never races an in-flight mutation.
func (s *TaskService) locked(src domain.Snapshotter) domain.Snapshotter {
	return lockedSnapshot{mu: &s.mu, src: src}
}

type lockedSnapshot struct {
	mu  *sync.Mutex
	src domain.Snapshotter
}

func (l lockedSnapshot) Snapshot() []domain.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Snapshot()
}

func validationMessage(err error) string {
	if ve, ok := validation.AsValidationError(err); ok {
		return ve.UserMessage()
	}
	return err.Error()
}
