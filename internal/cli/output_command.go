package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"task-list/internal/domain"
	"task-list/internal/errors"
)

// OutputCommand handles the output command
type OutputCommand struct {
	app    *App
	mapper *domain.TaskMapper
}

// NewOutputCommand creates a new output command handler
func NewOutputCommand(app *App) *OutputCommand {
	return &OutputCommand{app: app, mapper: domain.NewTaskMapper()}
}

// Execute runs the output command
func (c *OutputCommand) Execute(ctx context.Context, args []string) error {
	return c.outputTasks(ctx, args)
}

// outputTasks outputs tasks in the specified format. Without an argument the
// configured default format is used.
func (c *OutputCommand) outputTasks(ctx context.Context, args []string) error {
	format := "format=" + c.app.config.Commands.OutputDefaultFormat
	if len(args) > 0 {
		format = args[0]
	}
	if !strings.HasPrefix(format, "format=") {
		return errors.NewInvalidInputError("format", format, "invalid format option")
	}

	tasks := c.app.service.Tasks()
	switch strings.TrimPrefix(format, "format=") {
	case "csv":
		return c.outputCSV(tasks)
	case "json":
		return c.outputJSON(tasks)
	case "yaml":
		return c.outputYAML(tasks)
	default:
		return errors.NewInvalidInputError("format", strings.TrimPrefix(format, "format="), "unsupported format")
	}
}

// outputCSV outputs all tasks in CSV format
func (c *OutputCommand) outputCSV(tasks []domain.Task) error {
	writer := csv.NewWriter(c.app.out)

	if err := writer.Write([]string{"Name", "Complete", "Status"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, task := range tasks {
		row := []string{task.Name, strconv.FormatBool(task.IsComplete), task.StatusLabel()}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// outputJSON outputs the stored record form of all tasks
func (c *OutputCommand) outputJSON(tasks []domain.Task) error {
	encoder := json.NewEncoder(c.app.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c.mapper.ToRecordSlice(tasks)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// outputYAML outputs all tasks as a YAML sequence
func (c *OutputCommand) outputYAML(tasks []domain.Task) error {
	encoder := yaml.NewEncoder(c.app.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(c.mapper.ToRecordSlice(tasks)); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return encoder.Close()
}
