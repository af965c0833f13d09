package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-list/internal/config"
)

// runRoot executes one tl invocation against the store in dir
func runRoot(t *testing.T, dir, input string, args ...string) (string, *RootCommand, error) {
	t.Helper()
	t.Setenv("TL_CONFIG", filepath.Join(dir, "missing.yaml"))

	out := &bytes.Buffer{}
	root := NewRootCommand(config.NewLoader(), Streams{In: strings.NewReader(input), Out: out})

	flags := []string{"--store-dir", dir, "--save-delay", "0s", "--load-delay", "0s", "--deferred-add-delay", "0s"}
	root.SetArgs(append(args, flags...))

	err := root.Execute()
	return out.String(), root, err
}

func TestRootCommand_AddViewDelete(t *testing.T) {
	dir := t.TempDir()
	captureConsole(t)

	out, _, err := runRoot(t, dir, "", "add", "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "Task Added\n", out)

	out, _, err = runRoot(t, dir, "", "add", "--mode", "delayed", "Walk dog")
	require.NoError(t, err)
	assert.Equal(t, "Task Added\n", out)

	out, _, err = runRoot(t, dir, "", "complete", "Walk dog")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks saved successfully")

	out, _, err = runRoot(t, dir, "", "view")
	require.NoError(t, err)
	assert.Equal(t, "Tasks fetched\n1. [ ] Buy milk - Incomplete\n2. [x] Walk dog - Complete\n", out)

	out, _, err = runRoot(t, dir, "n\n", "delete", "Buy milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete cancelled.")

	out, _, err = runRoot(t, dir, "", "delete", "-y", "Buy milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Task Deleted")

	out, _, err = runRoot(t, dir, "", "output", "format=csv")
	require.NoError(t, err)
	assert.Equal(t, "Name,Complete,Status\nWalk dog,true,Complete\n", out)
}

func TestRootCommand_CompleteUndoAndClear(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runRoot(t, dir, "", "add", "Buy milk")
	require.NoError(t, err)
	_, _, err = runRoot(t, dir, "", "complete", "Buy milk")
	require.NoError(t, err)
	_, _, err = runRoot(t, dir, "", "complete", "--undo", "Buy milk")
	require.NoError(t, err)

	out, _, err := runRoot(t, dir, "", "view")
	require.NoError(t, err)
	assert.Contains(t, out, "1. [ ] Buy milk - Incomplete")

	out, _, err = runRoot(t, dir, "yes\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All tasks have been cleared.")

	out, _, err = runRoot(t, dir, "", "view")
	require.NoError(t, err)
	assert.Equal(t, "No tasks available\n", out)
}

func TestRootCommand_CorruptSlotCanBeCleared(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Storage.Dir = dir
	repo, err := config.CreateRepository(cfg)
	require.NoError(t, err)
	require.NoError(t, repo.Set(context.Background(), cfg.Storage.Key, `{not json`))
	require.NoError(t, repo.Close())

	out, _, err := runRoot(t, dir, "", "view")
	require.Error(t, err)
	assert.EqualError(t, NewErrorHandler().HandleSimple(err), "Error fetching tasks")
	assert.Contains(t, out, "Stored tasks could not be read; starting with an empty list.")
	assert.Contains(t, out, "Error fetching tasks: Error fetching tasks")

	out, _, err = runRoot(t, dir, "", "--yes", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All tasks have been cleared.")
	assert.NotContains(t, out, "Error saving tasks")

	out, _, err = runRoot(t, dir, "", "view")
	require.NoError(t, err)
	assert.Equal(t, "No tasks available\n", out)
}

func TestRootCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runRoot(t, dir, "", "add")
	assert.Error(t, err)

	_, _, err = runRoot(t, dir, "", "add", "--mode", "later", "Buy milk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")

	_, _, err = runRoot(t, dir, "", "delete", "Nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, _, err = runRoot(t, dir, "", "view", "--config", filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestRootCommand_Config(t *testing.T) {
	dir := t.TempDir()

	_, root, err := runRoot(t, dir, "", "view", "--store-key", "chores", "--app-timeout", "5s", "-y", "--output-format", "yaml")
	require.NoError(t, err)

	cfg := root.Config()
	require.NotNil(t, cfg)
	assert.Equal(t, dir, cfg.Storage.Dir)
	assert.Equal(t, "chores", cfg.Storage.Key)
	assert.Equal(t, time.Duration(0), cfg.Timing.SaveDelay)
	assert.Equal(t, 5*time.Second, cfg.Application.Timeout)
	assert.True(t, cfg.Application.AssumeYes)
	assert.Equal(t, "yaml", cfg.Commands.OutputDefaultFormat)
}

func TestOverridesFromFlags(t *testing.T) {
	root := NewRootCommand(config.NewLoader(), Streams{})
	flags := root.cmd.PersistentFlags()

	require.NoError(t, flags.Parse([]string{"--store-filename", "other.db", "--load-delay", "3s", "--verbose"}))

	o := overridesFromFlags(flags)

	require.NotNil(t, o.StoreFilename)
	assert.Equal(t, "other.db", *o.StoreFilename)
	require.NotNil(t, o.LoadDelay)
	assert.Equal(t, 3*time.Second, *o.LoadDelay)
	require.NotNil(t, o.Verbose)
	assert.True(t, *o.Verbose)

	assert.Nil(t, o.StoreDir)
	assert.Nil(t, o.StoreKey)
	assert.Nil(t, o.SaveDelay)
	assert.Nil(t, o.AssumeYes)
	assert.Nil(t, o.OutputDefaultFormat)
}
