package cli

import (
	"context"

	"task-list/internal/errors"
	"task-list/internal/services"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute adds the task named by args. A leading mode=immediate|delayed
// argument overrides the configured default mode.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	modeArg, rest, ok := splitOption(args, "mode")
	if !ok {
		modeArg = c.app.config.Commands.AddDefaultMode
	}

	mode, err := services.ParseAddMode(modeArg)
	if err != nil {
		return errors.NewInvalidInputError("mode", modeArg, err.Error())
	}

	return c.app.service.Add(ctx, taskName(rest), mode)
}
