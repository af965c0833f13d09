package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"task-list/internal/config"
	"task-list/internal/logging"
	"task-list/internal/notify"
	"task-list/internal/services"
)

// Streams are the terminal endpoints an App reads and writes
type Streams struct {
	In  io.Reader
	Out io.Writer
}

// StdStreams returns stdin and stdout
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout}
}

// App represents the main CLI application: one task service, the view the
// user last opened and the terminal it talks to.
type App struct {
	service   *services.TaskService
	config    *config.Config
	in        *bufio.Reader
	out       io.Writer
	confirmer services.Confirmer
	view      *services.View
	registry  *CommandRegistry
}

// NewApp creates a new CLI application around an initialised service
func NewApp(service *services.TaskService, cfg *config.Config, streams Streams) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if streams.In == nil {
		streams.In = strings.NewReader("")
	}
	if streams.Out == nil {
		streams.Out = io.Discard
	}

	app := &App{
		service: service,
		config:  cfg,
		in:      bufio.NewReader(streams.In),
		out:     streams.Out,
	}
	if cfg.Application.AssumeYes {
		app.confirmer = services.AlwaysConfirm
	} else {
		app.confirmer = &PromptConfirmer{in: app.in, out: app.out}
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// OpenApp opens the store described by cfg, loads the task list and returns
// an App over it. The returned cleanup waits for deferred adds and closes the
// store. A nil notifier prints notices to streams.Out.
func OpenApp(ctx context.Context, cfg *config.Config, streams Streams, notifier notify.Notifier) (*App, func(), error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	if notifier == nil {
		out := streams.Out
		if out == nil {
			out = io.Discard
		}
		notifier = notify.NewWriterNotifier(out)
	}

	service := services.NewTaskServiceFromConfig(cfg, repo, notifier)
	if err := service.Init(ctx); err != nil {
		repo.Close()
		return nil, nil, err
	}

	cleanup := func() {
		waitCtx, cancel := context.WithTimeout(context.Background(), cfg.Timing.DeferredAddDelay+cfg.Timing.SaveDelay+cfg.Application.Timeout)
		defer cancel()
		if err := service.Wait(waitCtx); err != nil {
			logging.Debugf("cli: pending adds not finished: %v\n", err)
		}
		repo.Close()
	}

	return NewApp(service, cfg, streams), cleanup, nil
}

// Service returns the task service the App operates on
func (a *App) Service() *services.TaskService {
	return a.service
}

// Run executes one registered command
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}
	return a.registry.Execute(ctx, args[0], args[1:])
}

// openView replaces the current view with a freshly loaded one
func (a *App) openView(ctx context.Context) (*services.View, error) {
	if a.view != nil {
		a.service.CloseView(a.view.ID())
	}
	a.view = a.service.NewView()
	if err := a.view.Open(ctx); err != nil {
		return nil, err
	}
	return a.view, nil
}

func (a *App) printRows(rows []services.Row) {
	for i, row := range rows {
		mark := " "
		if row.Checked {
			mark = "x"
		}
		fmt.Fprintf(a.out, "%d. [%s] %s\n", i+1, mark, row.Label)
	}
}

// PromptConfirmer asks yes/no questions on the terminal. Anything but y or
// yes declines.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer creates a confirmer reading answers from in
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *PromptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// taskName joins command arguments into one task name and drops matching
// surrounding quotes, so `delete "Buy milk"` and `delete Buy milk` agree.
func taskName(args []string) string {
	name := strings.Join(args, " ")
	if len(name) >= 2 {
		first, last := name[0], name[len(name)-1]
		if (first == '"' || first == '\'') && first == last {
			name = name[1 : len(name)-1]
		}
	}
	return name
}

// splitOption removes a leading key=value argument, as in `add mode=delayed Buy milk`
func splitOption(args []string, key string) (string, []string, bool) {
	if len(args) == 0 || !strings.HasPrefix(args[0], key+"=") {
		return "", args, false
	}
	return strings.TrimPrefix(args[0], key+"="), args[1:], true
}

// commandTimeout returns the configured per-command timeout
func commandTimeout(cfg *config.Config) time.Duration {
	if cfg != nil && cfg.Application.Timeout > 0 {
		return cfg.Application.Timeout
	}
	return 60 * time.Second
}
