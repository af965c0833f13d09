package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCommand struct {
	calls [][]string
	err   error
}

func (c *recordingCommand) Execute(ctx context.Context, args []string) error {
	c.calls = append(c.calls, args)
	return c.err
}

func TestNewCommandRegistry(t *testing.T) {
	app, _ := setupTestApp(t, nil, "")

	registry := NewCommandRegistry(app)

	assert.NotNil(t, registry)
	assert.Equal(t, []string{"add", "clear", "complete", "delete", "output", "save", "toggle", "view"}, registry.Names())
}

func TestCommandRegistry_Execute(t *testing.T) {
	app, _ := setupTestApp(t, nil, "y\n")
	registry := NewCommandRegistry(app)
	ctx := context.Background()

	t.Run("executes add command", func(t *testing.T) {
		require.NoError(t, registry.Execute(ctx, "add", []string{"Buy milk"}))
		assert.Equal(t, []string{"Buy milk"}, taskNames(app))
	})

	t.Run("executes view command", func(t *testing.T) {
		require.NoError(t, registry.Execute(ctx, "view", nil))
		require.NotNil(t, app.view)
		assert.Len(t, app.view.Rows(), 1)
	})

	t.Run("executes output command", func(t *testing.T) {
		assert.NoError(t, registry.Execute(ctx, "output", []string{"format=csv"}))
	})

	t.Run("executes delete command", func(t *testing.T) {
		captureConsole(t)
		require.NoError(t, registry.Execute(ctx, "delete", []string{"Buy milk"}))
		assert.Empty(t, taskNames(app))
	})

	t.Run("handles unknown command", func(t *testing.T) {
		err := registry.Execute(ctx, "unknown", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})

	t.Run("handles empty command", func(t *testing.T) {
		err := registry.Execute(ctx, "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})
}

func TestCommandRegistry_Register(t *testing.T) {
	registry := &CommandRegistry{commands: make(map[string]Command)}
	cmd := &recordingCommand{}

	registry.Register("ping", cmd)
	require.NoError(t, registry.Execute(context.Background(), "ping", []string{"a", "b"}))

	assert.Equal(t, [][]string{{"a", "b"}}, cmd.calls)
	assert.Equal(t, []string{"ping"}, registry.Names())
}

func TestCommandRegistry_ErrorPropagation(t *testing.T) {
	registry := &CommandRegistry{commands: make(map[string]Command)}
	cmd := &recordingCommand{err: assert.AnError}
	registry.Register("fail", cmd)

	err := registry.Execute(context.Background(), "fail", nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCommandRegistry_GetUsage(t *testing.T) {
	app, _ := setupTestApp(t, nil, "")
	registry := NewCommandRegistry(app)

	usage := registry.GetUsage()

	assert.Contains(t, usage, "usage:")
	for _, name := range registry.Names() {
		assert.Contains(t, usage, name)
	}
	assert.Contains(t, usage, "mode=immediate|delayed")
	assert.Contains(t, usage, "format=csv|json|yaml")
}
