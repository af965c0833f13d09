package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ShellCommand runs an interactive session: one task collection kept in
// memory across commands, the way a page keeps it between clicks.
type ShellCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewShellCommand creates a new shell command handler
func NewShellCommand(app *App) *ShellCommand {
	return &ShellCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute reads commands until quit or end of input. Command errors are
// printed and the session continues.
func (c *ShellCommand) Execute(ctx context.Context, args []string) error {
	fmt.Fprintln(c.app.out, `task list shell, type "help" for commands`)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.app.out, "> ")

		line, err := c.app.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				fmt.Fprintln(c.app.out)
				return nil
			}
			return err
		}

		fields := splitLine(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(c.app.out, c.app.registry.GetUsage())
			continue
		}

		cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout(c.app.config))
		err = c.app.registry.Execute(cmdCtx, fields[0], fields[1:])
		cancel()
		if err != nil {
			fmt.Fprintf(c.app.out, "Error: %v\n", c.errorHandler.HandleSimple(err))
		}
	}
}

// splitLine splits a shell line on whitespace. Text inside matching single
// or double quotes is one argument with its spacing kept and the quotes
// removed. An unterminated quote runs to the end of the line.
func splitLine(line string) []string {
	var (
		fields  []string
		current strings.Builder
		inField bool
		quote   rune
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inField = true
		case unicode.IsSpace(r):
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
		default:
			current.WriteRune(r)
			inField = true
		}
	}
	if inField {
		fields = append(fields, current.String())
	}
	return fields
}
