package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"task-list/internal/errors"
	"task-list/internal/services"
)

// ViewCommand opens a view of the stored tasks and prints its rows
type ViewCommand struct {
	app *App
}

// NewViewCommand creates a new view command handler
func NewViewCommand(app *App) *ViewCommand {
	return &ViewCommand{app: app}
}

// Execute runs the view command
func (c *ViewCommand) Execute(ctx context.Context, args []string) error {
	view, err := c.app.openView(ctx)
	if err != nil {
		return err
	}
	c.app.printRows(view.Rows())
	return nil
}

// ToggleCommand sets the checkbox of a row in the open view
type ToggleCommand struct {
	app *App
}

// NewToggleCommand creates a new toggle command handler
func NewToggleCommand(app *App) *ToggleCommand {
	return &ToggleCommand{app: app}
}

// Execute takes a 1-based row number and an optional on|off. Without a
// state the checkbox is flipped.
func (c *ToggleCommand) Execute(ctx context.Context, args []string) error {
	if c.app.view == nil {
		return errors.NewInvalidInputError("view", "", "no view open, run view first")
	}
	if len(args) == 0 || len(args) > 2 {
		return errors.NewInvalidInputError("command", "toggle", "usage: toggle <row> [on|off]")
	}

	number, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.NewInvalidInputError("row", args[0], "row must be a number")
	}
	row := number - 1

	rows := c.app.view.Rows()
	if row < 0 || row >= len(rows) {
		return errors.NewInvalidInputError("row", number, "no such row")
	}

	checked := !rows[row].Checked
	if len(args) == 2 {
		switch strings.ToLower(args[1]) {
		case "on", "true", "yes", "x":
			checked = true
		case "off", "false", "no":
			checked = false
		default:
			return errors.NewInvalidInputError("state", args[1], "state must be on or off")
		}
	}

	if err := c.app.view.Toggle(row, checked); err != nil {
		return err
	}
	c.app.printRows(c.app.view.Rows())
	return nil
}

// SaveCommand persists the checkbox states of the open view
type SaveCommand struct {
	app *App
}

// NewSaveCommand creates a new save command handler
func NewSaveCommand(app *App) *SaveCommand {
	return &SaveCommand{app: app}
}

// Execute runs the save command
func (c *SaveCommand) Execute(ctx context.Context, args []string) error {
	if c.app.view == nil {
		return errors.NewInvalidInputError("view", "", "no view open, run view first")
	}
	return c.app.view.Save(ctx)
}

// CompleteCommand marks one task complete, or incomplete with a leading
// "undo", through a fresh view and a bulk save
type CompleteCommand struct {
	app *App
}

// NewCompleteCommand creates a new complete command handler
func NewCompleteCommand(app *App) *CompleteCommand {
	return &CompleteCommand{app: app}
}

// Execute runs the complete command
func (c *CompleteCommand) Execute(ctx context.Context, args []string) error {
	checked := true
	if len(args) > 0 && args[0] == "undo" {
		checked = false
		args = args[1:]
	}
	name := strings.TrimSpace(taskName(args))
	if name == "" {
		return errors.NewValidationError("empty target", nil)
	}

	view, err := c.app.openView(ctx)
	if err != nil {
		return err
	}

	for i, row := range view.Rows() {
		if row.Name != name {
			continue
		}
		if err := view.Toggle(i, checked); err != nil {
			return err
		}
		return view.Save(ctx)
	}

	fmt.Fprintln(c.app.out, services.MsgTaskNotFound)
	return errors.NewNotFoundError("task", name)
}
