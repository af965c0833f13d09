package cli

import (
	"context"
	"fmt"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the task named by args, asking first if it is incomplete
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	deleted, err := c.app.service.Delete(ctx, taskName(args), c.app.confirmer)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(c.app.out, "Delete cancelled.")
	}
	return nil
}
