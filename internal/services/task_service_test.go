package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"task-list/internal/config"
	"task-list/internal/domain"
	"task-list/internal/errors"
	"task-list/internal/logging"
	"task-list/internal/notify"
	"task-list/internal/repository/sqlite"
	"task-list/internal/scheduler"
	"task-list/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a store, counts fetches and can be made to fail saves.
type countingStore struct {
	TaskStore
	fetches atomic.Int32
	saveErr error
}

func (c *countingStore) Fetch(ctx context.Context) ([]*domain.Task, error) {
	c.fetches.Add(1)
	return c.TaskStore.Fetch(ctx)
}

func (c *countingStore) Save(ctx context.Context, src domain.Snapshotter) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.TaskStore.Save(ctx, src)
}

func setupTaskService(t *testing.T, opts Options) (*TaskService, *countingStore, *notify.Feed) {
	t.Helper()

	repo, err := sqlite.New(filepath.Join(t.TempDir(), "tl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	sched := scheduler.New()
	st := &countingStore{TaskStore: store.New(repo, sched, store.Options{})}
	feed := notify.NewFeed(0)
	return NewTaskService(st, sched, feed, opts), st, feed
}

func loadNames(t *testing.T, st TaskStore) []domain.Task {
	t.Helper()
	tasks, err := st.Load(context.Background())
	require.NoError(t, err)
	return domain.Tasks(tasks).Snapshot()
}

func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.SetConsoleOutput(&buf)
	t.Cleanup(func() { logging.SetConsoleOutput(prev) })
	return &buf
}

func TestParseAddMode(t *testing.T) {
	tests := []struct {
		input    string
		expected AddMode
		wantErr  bool
	}{
		{"", AddImmediate, false},
		{"immediate", AddImmediate, false},
		{"Delayed", AddDelayed, false},
		{"later", "", true},
	}

	for _, tt := range tests {
		mode, err := ParseAddMode(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, mode)
	}
}

func TestTaskService_Add(t *testing.T) {
	tests := []struct {
		name           string
		taskName       string
		expectedName   string
		expectedNotice string
		errorType      *errors.ErrorType
	}{
		{
			name:           "should add task with valid name",
			taskName:       "Buy milk",
			expectedName:   "Buy milk",
			expectedNotice: MsgTaskAdded,
		},
		{
			name:           "should trim surrounding whitespace",
			taskName:       "  Buy milk ",
			expectedName:   "Buy milk",
			expectedNotice: MsgTaskAdded,
		},
		{
			name:           "should reject empty name",
			taskName:       "",
			expectedNotice: MsgEnterTask,
			errorType:      ptr(errors.ErrorTypeValidation),
		},
		{
			name:           "should reject whitespace-only name",
			taskName:       "   ",
			expectedNotice: MsgEnterTask,
			errorType:      ptr(errors.ErrorTypeValidation),
		},
		{
			name:           "should reject over-long name",
			taskName:       strings.Repeat("a", 300),
			expectedNotice: "task name must be at most 255 characters long",
			errorType:      ptr(errors.ErrorTypeValidation),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, st, feed := setupTaskService(t, Options{})

			err := service.Add(context.Background(), tt.taskName, AddImmediate)

			assert.Equal(t, []string{tt.expectedNotice}, feed.Messages())
			if tt.errorType != nil {
				assert.True(t, errors.IsErrorType(err, *tt.errorType))
				assert.Empty(t, service.Tasks(), "nothing is mutated")
				assert.Empty(t, loadNames(t, st))
				return
			}
			require.NoError(t, err)
			expected := []domain.Task{{Name: tt.expectedName}}
			assert.Equal(t, expected, service.Tasks())
			assert.Equal(t, expected, loadNames(t, st))
		})
	}
}

func TestTaskService_AddEmptyNameMessage(t *testing.T) {
	service, _, _ := setupTaskService(t, Options{})

	err := service.Add(context.Background(), "", AddImmediate)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "empty name", appErr.Message)
}

func TestTaskService_AddUnknownMode(t *testing.T) {
	service, _, _ := setupTaskService(t, Options{})

	err := service.Add(context.Background(), "Buy milk", AddMode("soon"))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Empty(t, service.Tasks())
}

func TestTaskService_AddDuplicate(t *testing.T) {
	service, st, feed := setupTaskService(t, Options{})
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))
	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, loadNames(t, st))

	err := service.Add(ctx, "Buy milk", AddImmediate)

	assert.NoError(t, err, "duplicates are swallowed")
	assert.Contains(t, feed.Messages(), `Task "Buy milk" already exists. Cannot add it again.`)
	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, service.Tasks())
	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, loadNames(t, st))
}

func TestTaskService_AddDuplicateOfCompletedTask(t *testing.T) {
	service, st, _ := setupTaskService(t, Options{})
	ctx := context.Background()
	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))
	require.NoError(t, service.Toggle(0, true))

	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))

	assert.Equal(t, []domain.Task{{Name: "Buy milk", IsComplete: true}}, service.Tasks())
	assert.Equal(t, []domain.Task{{Name: "Buy milk", IsComplete: true}}, loadNames(t, st))
}

func TestTaskService_AddSaveFailureKeepsOptimisticAppend(t *testing.T) {
	service, st, feed := setupTaskService(t, Options{})
	st.saveErr = errors.NewStoreError("set tasks", sqlite.ErrQuotaExceeded)

	err := service.Add(context.Background(), "Buy milk", AddImmediate)

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStore))
	assert.Equal(t, []string{"Error: Error saving tasks"}, feed.Messages())
	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, service.Tasks())
	assert.Empty(t, loadNames(t, st))
}

func TestTaskService_AddDelayed(t *testing.T) {
	service, st, feed := setupTaskService(t, Options{DeferredAddDelay: 10 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, "Buy milk", AddDelayed))
	require.NoError(t, service.Wait(ctx))

	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, service.Tasks())
	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, loadNames(t, st))
	assert.Equal(t, []string{MsgTaskAdded}, feed.Messages())
}

func TestTaskService_AddDelayedOutlivesCallerContext(t *testing.T) {
	service, st, _ := setupTaskService(t, Options{DeferredAddDelay: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, service.Add(ctx, "Buy milk", AddDelayed))
	cancel()
	require.NoError(t, service.Wait(context.Background()))

	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, loadNames(t, st))
}

func TestTaskService_ImmediateAddOvertakesDeferredAdd(t *testing.T) {
	service, st, _ := setupTaskService(t, Options{DeferredAddDelay: 150 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, "deferred", AddDelayed))
	require.NoError(t, service.Add(ctx, "immediate", AddImmediate))

	// The immediate add persisted first, without the pending task.
	assert.Equal(t, []domain.Task{{Name: "immediate"}}, loadNames(t, st))

	require.NoError(t, service.Wait(ctx))

	// The deferred add's own save snapshots the collection and converges.
	expected := []domain.Task{{Name: "immediate"}, {Name: "deferred"}}
	assert.Equal(t, expected, service.Tasks())
	assert.Equal(t, expected, loadNames(t, st))
}

func TestTaskService_DeferredDuplicate(t *testing.T) {
	service, st, feed := setupTaskService(t, Options{DeferredAddDelay: 20 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, service.Add(ctx, "Buy milk", AddDelayed))
	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))
	require.NoError(t, service.Wait(ctx))

	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, loadNames(t, st))
	assert.Contains(t, feed.Messages(), `Task "Buy milk" already exists. Cannot add it again.`)
}

func TestTaskService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		complete      bool
		confirmer     Confirmer
		expectDeleted bool
		expectPrompt  bool
	}{
		{"complete task needs no confirmation", true, NeverConfirm, true, false},
		{"incomplete task confirmed", false, AlwaysConfirm, true, true},
		{"incomplete task declined", false, NeverConfirm, false, true},
		{"nil confirmer declines", false, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console := captureConsole(t)
			service, st, feed := setupTaskService(t, Options{})
			ctx := context.Background()
			require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))
			require.NoError(t, service.Add(ctx, "Walk dog", AddImmediate))
			view := openView(t, service)
			require.NoError(t, view.Toggle(0, tt.complete))
			require.NoError(t, view.Save(ctx))
			before := loadNames(t, st)
			feed.Drain()

			var prompts []string
			confirmer := tt.confirmer
			if confirmer != nil {
				confirmer = ConfirmFunc(func(p string) bool {
					prompts = append(prompts, p)
					return tt.confirmer.Confirm(p)
				})
			}

			deleted, err := service.Delete(ctx, "Buy milk", confirmer)

			require.NoError(t, err)
			assert.Equal(t, tt.expectDeleted, deleted)
			if tt.expectPrompt {
				assert.Equal(t, []string{`The task "Buy milk" is incomplete. Do you want to delete it?`}, prompts)
			} else {
				assert.Empty(t, prompts)
			}

			if tt.expectDeleted {
				assert.Equal(t, []domain.Task{{Name: "Walk dog"}}, service.Tasks())
				assert.Equal(t, []domain.Task{{Name: "Walk dog"}}, loadNames(t, st))
				assert.Equal(t, []string{MsgTaskDeleted}, feed.Messages())
				assert.Equal(t, "Deleting task: Buy milk\n", console.String())
			} else {
				assert.Len(t, service.Tasks(), 2)
				assert.Equal(t, before, loadNames(t, st))
				assert.Empty(t, feed.Messages())
				assert.Empty(t, console.String())
			}
		})
	}
}

func TestTaskService_DeleteNotFound(t *testing.T) {
	service, _, feed := setupTaskService(t, Options{})
	ctx := context.Background()
	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))
	feed.Drain()

	deleted, err := service.Delete(ctx, "buy milk", AlwaysConfirm)

	assert.False(t, deleted)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Equal(t, []string{MsgTaskNotFound}, feed.Messages())
	assert.Len(t, service.Tasks(), 1)
}

func TestTaskService_DeleteEmptyTarget(t *testing.T) {
	service, _, feed := setupTaskService(t, Options{})

	_, err := service.Delete(context.Background(), "", AlwaysConfirm)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "empty target", appErr.Message)
	assert.Equal(t, []string{MsgEnterDeleteTarget}, feed.Messages())
}

func TestTaskService_DeleteSaveFailure(t *testing.T) {
	captureConsole(t)
	service, st, feed := setupTaskService(t, Options{})
	ctx := context.Background()
	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))
	st.saveErr = errors.NewStoreError("set tasks", stderrors.New("disk full"))
	feed.Drain()

	deleted, err := service.Delete(ctx, "Buy milk", AlwaysConfirm)

	assert.True(t, deleted)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStore))
	assert.Empty(t, service.Tasks())
	assert.Equal(t, []string{"Error: Error saving tasks"}, feed.Messages())
}

func TestTaskService_Toggle(t *testing.T) {
	service, st, _ := setupTaskService(t, Options{})
	ctx := context.Background()
	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))

	require.NoError(t, service.Toggle(0, true))
	assert.Equal(t, []domain.Task{{Name: "Buy milk", IsComplete: true}}, service.Tasks())
	assert.Equal(t, []domain.Task{{Name: "Buy milk"}}, loadNames(t, st), "toggles are not persisted")

	err := service.Toggle(3, true)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Equal(t, "invalid input for index: no task at position 3", errors.GetUserMessage(err))

	err = service.Toggle(-1, true)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestTaskService_ClearAll(t *testing.T) {
	service, st, feed := setupTaskService(t, Options{})
	ctx := context.Background()
	require.NoError(t, service.Add(ctx, "Buy milk", AddImmediate))
	require.NoError(t, service.Add(ctx, "Walk dog", AddImmediate))
	view := openView(t, service)
	feed.Drain()

	cleared, err := service.ClearAll(ctx, NeverConfirm)
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Len(t, loadNames(t, st), 2)

	var prompt string
	cleared, err = service.ClearAll(ctx, ConfirmFunc(func(p string) bool { prompt = p; return true }))
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, PromptClearAll, prompt)
	assert.Empty(t, loadNames(t, st))
	assert.Empty(t, service.Tasks())
	assert.Empty(t, view.Rows())
	assert.Equal(t, []string{MsgTasksCleared}, feed.Messages())
}

func TestTaskService_InitAndRoundTrip(t *testing.T) {
	service, st, _ := setupTaskService(t, Options{})
	ctx := context.Background()
	stored := []domain.Task{{Name: "a"}, {Name: "b", IsComplete: true}}
	require.NoError(t, st.Save(ctx, domain.NewList(domain.NewTask("a"), &domain.Task{Name: "b", IsComplete: true})))

	require.NoError(t, service.Init(ctx))
	assert.Equal(t, stored, service.Tasks())

	// save(load()) leaves the stored pairs unchanged
	tasks, err := st.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, domain.Tasks(tasks)))
	assert.Equal(t, stored, loadNames(t, st))
}

func TestTaskService_InitCorruptSlotStartsEmpty(t *testing.T) {
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "tl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, store.DefaultKey, `{not json`))

	feed := notify.NewFeed(0)
	st := store.New(repo, nil, store.Options{})
	service := NewTaskService(st, nil, feed, Options{})

	require.NoError(t, service.Init(ctx))
	assert.Empty(t, service.Tasks())
	assert.Equal(t, []string{MsgUnreadableTasks}, feed.Messages())

	cleared, err := service.ClearAll(ctx, AlwaysConfirm)
	require.NoError(t, err)
	assert.True(t, cleared)
	_, ok, err := repo.Get(ctx, store.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskService_InitReadFailure(t *testing.T) {
	service, _, feed := setupTaskService(t, Options{})
	service.store = failingLoadStore{TaskStore: service.store}

	err := service.Init(context.Background())

	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStore))
	assert.Equal(t, "Error fetching tasks", errors.GetUserMessage(err))
	assert.Empty(t, feed.Messages())
}

type failingLoadStore struct {
	TaskStore
}

func (failingLoadStore) Load(ctx context.Context) ([]*domain.Task, error) {
	return nil, errors.NewStoreReadError("get tasks", stderrors.New("locked"))
}

func TestTaskService_RequestScopedNotices(t *testing.T) {
	service, _, feed := setupTaskService(t, Options{})
	first := notify.NewFeed(0)
	second := notify.NewFeed(0)
	firstCtx := notify.NewContext(context.Background(), first)
	secondCtx := notify.NewContext(context.Background(), second)

	require.NoError(t, service.Add(firstCtx, "Buy milk", AddImmediate))
	require.NoError(t, service.Add(secondCtx, "Buy milk", AddImmediate))
	_, err := service.Delete(secondCtx, "Walk dog", nil)
	require.Error(t, err)

	assert.Equal(t, []string{MsgTaskAdded}, first.Messages())
	assert.Equal(t, []string{
		`Task "Buy milk" already exists. Cannot add it again.`,
		MsgTaskAdded,
		MsgTaskNotFound,
	}, second.Messages())
	assert.Len(t, feed.Messages(), 4, "the service notifier still sees every notice")
}

func TestNewTaskServiceFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Timing = config.TimingConfig{}
	cfg.Storage.Key = "list"
	cfg.Display.IncompleteLabel = "Open"
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "tl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	service := NewTaskServiceFromConfig(cfg, repo, nil)
	require.NoError(t, service.Add(context.Background(), "Buy milk", AddImmediate))

	value, ok, err := repo.Get(context.Background(), "list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"name":"Buy milk","isComplete":false}]`, value)
	assert.Equal(t, "Buy milk - Open", service.Label(domain.Task{Name: "Buy milk"}))
}

func ptr[T any](v T) *T {
	return &v
}
