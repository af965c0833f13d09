package cli

import (
	"context"
	"sort"
	"strings"

	"task-list/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a registry holding every command that works on
// a single App, which is what the shell dispatches to
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	registry.Register("add", NewAddCommand(app))
	registry.Register("delete", NewDeleteCommand(app))
	registry.Register("view", NewViewCommand(app))
	registry.Register("toggle", NewToggleCommand(app))
	registry.Register("save", NewSaveCommand(app))
	registry.Register("complete", NewCompleteCommand(app))
	registry.Register("clear", NewClearCommand(app))
	registry.Register("output", NewOutputCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Names returns the registered command names in order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	return "usage: " + strings.Join([]string{
		`add [mode=immediate|delayed] "task name"`,
		`delete "task name"`,
		"view",
		"toggle <row> [on|off]",
		"save",
		`complete [undo] "task name"`,
		"clear",
		"output format=csv|json|yaml",
	}, " | ")
}
