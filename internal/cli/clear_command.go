package cli

import (
	"context"
	"fmt"
)

// ClearCommand erases every task after confirmation
type ClearCommand struct {
	app *App
}

// NewClearCommand creates a new clear command handler
func NewClearCommand(app *App) *ClearCommand {
	return &ClearCommand{app: app}
}

// Execute runs the clear command
func (c *ClearCommand) Execute(ctx context.Context, args []string) error {
	cleared, err := c.app.service.ClearAll(ctx, c.app.confirmer)
	if err != nil {
		return err
	}
	if !cleared {
		fmt.Fprintln(c.app.out, "Clear cancelled.")
	}
	return nil
}
