package services

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/notify"
)

// View is one display of the task list: rows with a label and a checkbox
// bound to a task position. A view loads from the store once, on its first
// Open, however many times Open is called.
type View struct {
	id   string
	svc  *TaskService
	once sync.Once

	mu      sync.Mutex
	rows    []Row
	openErr error
}

// NewView creates and registers an unopened view. Past the view cap the
// oldest registered view is closed.
func (s *TaskService) NewView() *View {
	v := &View{id: uuid.New().String(), svc: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[v.id] = v
	s.viewOrder = append(s.viewOrder, v.id)
	for len(s.viewOrder) > s.maxViews {
		oldest := s.viewOrder[0]
		s.viewOrder = s.viewOrder[1:]
		delete(s.views, oldest)
		logging.Debugf("view: evicted %s\n", oldest)
	}
	return v
}

// View returns the registered view with the given id
func (s *TaskService) View(id string) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	return v, ok
}

// CloseView unregisters a view
func (s *TaskService) CloseView(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[id]; !ok {
		return
	}
	delete(s.views, id)
	s.viewOrder = slices.DeleteFunc(s.viewOrder, func(other string) bool { return other == id })
}

// ID returns the view's identifier
func (v *View) ID() string {
	return v.id
}

// Open reloads the collection from the store and renders one row per task.
// Only the first call loads; later calls return the first call's result.
func (v *View) Open(ctx context.Context) error {
	v.once.Do(func() {
		logging.Debugln("view: fetching tasks...")
		err := v.load(ctx)

		v.mu.Lock()
		v.openErr = err
		v.mu.Unlock()
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.openErr
}

func (v *View) load(ctx context.Context) error {
	notifier := notify.With(ctx, v.svc.notifier)
	tasks, err := v.svc.Reload(ctx)
	if err != nil {
		notifier.Notify(notify.KindFailure, "Error fetching tasks: "+errors.GetUserMessage(err))
		return err
	}

	rows := make([]Row, len(tasks))
	for i, task := range tasks {
		rows[i] = Row{Index: i, Name: task.Name, Checked: task.IsComplete, Label: v.svc.Label(task)}
	}

	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()

	if len(rows) == 0 {
		notifier.Notify(notify.KindInfo, MsgNoTasks)
	} else {
		notifier.Notify(notify.KindSuccess, MsgTasksFetched)
	}
	return nil
}

// Rows returns a copy of the rendered rows
func (v *View) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Row, len(v.rows))
	copy(out, v.rows)
	return out
}

// Toggle sets a row's checkbox and the completion flag of the task it is
// bound to. The label keeps the status it was rendered with.
func (v *View) Toggle(row int, checked bool) error {
	v.mu.Lock()
	if row < 0 || row >= len(v.rows) {
		v.mu.Unlock()
		return errors.NewInvalidInputError("row", row, "no such row")
	}
	v.rows[row].Checked = checked
	index := v.rows[row].Index
	v.mu.Unlock()

	return v.svc.Toggle(index, checked)
}

// Save persists the tasks behind the rendered rows
func (v *View) Save(ctx context.Context) error {
	return v.svc.BulkSave(ctx, v)
}

// Clear removes every rendered row
func (v *View) Clear() {
	v.mu.Lock()
	v.rows = nil
	v.mu.Unlock()
}
