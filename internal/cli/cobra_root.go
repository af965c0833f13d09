package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"task-list/internal/config"
	"task-list/internal/logging"
	"task-list/internal/notify"
	"task-list/internal/web"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	config  *config.Config
	streams Streams
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, streams Streams) *RootCommand {
	if loader == nil {
		loader = config.NewLoader()
	}
	root := &RootCommand{
		loader:  loader,
		streams: streams,
	}

	root.cmd = &cobra.Command{
		Use:   "tl",
		Short: "A command-line task list manager",
		Long: `Task List (tl) keeps a list of named tasks, each complete or incomplete.

FEATURES:
  • Add tasks immediately or after a delay
  • Delete tasks, with a confirmation for incomplete ones
  • Review tasks in a view and save completion changes in bulk
  • Clear the whole list
  • Export to CSV, JSON or YAML
  • Interactive shell and JSON HTTP API over the same list

EXAMPLES:
  tl add "Buy milk"                        # Add a task now
  tl add --mode delayed "Walk dog"         # Add a task after the deferred add delay
  tl view                                  # Show all tasks
  tl complete "Buy milk"                   # Mark a task complete
  tl complete --undo "Buy milk"            # Mark it incomplete again
  tl delete "Buy milk"                     # Delete a task
  tl clear --yes                           # Delete every task without asking
  tl output format=json > tasks.json       # Export
  tl shell                                 # Interactive session
  tl serve --addr :8080                    # HTTP API

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  Config file: ~/.tl/config.yaml, TL_CONFIG or --config

  Storage Configuration:
    TL_STORE_DIR                           Store directory (default: ~/.tl)
    TL_STORE_FILENAME                      Store filename (default: tl.db)
    TL_STORE_KEY                           Slot key (default: tasks)
    TL_STORE_MAX_BYTES                     Slot quota in bytes (default: 5242880)

  Timing Configuration:
    TL_SAVE_DELAY                          Save latency (default: 1s)
    TL_LOAD_DELAY                          Fetch latency (default: 1s)
    TL_DEFERRED_ADD_DELAY                  Delayed add wait (default: 2s)

  Application Configuration:
    TL_APP_TIMEOUT                         Command timeout (default: 60s)
    TL_APP_VERBOSE                         Enable verbose output (default: false)
    TL_ASSUME_YES                          Answer yes to every prompt (default: false)
    TL_DEBUG                               Enable debug output

GETTING HELP:
  tl [command] --help                      # Get help for any specific command`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd.Flags())
		},
	}

	root.cmd.SetOut(streams.Out)
	root.cmd.SetIn(streams.In)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// SetArgs sets the arguments Execute parses instead of os.Args
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Config returns the configuration loaded for the last run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TL_CONFIG)")

	// Storage configuration
	flags.String("store-dir", "", "Store directory (overrides TL_STORE_DIR)")
	flags.String("store-filename", "", "Store filename (overrides TL_STORE_FILENAME)")
	flags.String("store-key", "", "Slot key (overrides TL_STORE_KEY)")

	// Timing configuration
	flags.Duration("save-delay", 0, "Save latency (overrides TL_SAVE_DELAY)")
	flags.Duration("load-delay", 0, "Fetch latency (overrides TL_LOAD_DELAY)")
	flags.Duration("deferred-add-delay", 0, "Delayed add wait (overrides TL_DEFERRED_ADD_DELAY)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TL_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TL_APP_VERBOSE)")
	flags.BoolP("yes", "y", false, "Answer yes to every prompt (overrides TL_ASSUME_YES)")

	// Commands configuration
	flags.String("output-format", "", "Default output format (overrides TL_OUTPUT_DEFAULT_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	addCmd := &cobra.Command{
		Use:   "add [task name]",
		Short: "Add a task",
		Long: `Add a new incomplete task.

Modes:
  immediate - append and save now (default)
  delayed   - append and save after the deferred add delay`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, _ := cmd.Flags().GetString("mode")
			if mode != "" {
				args = append([]string{"mode=" + mode}, args...)
			}
			return r.runWithApp(func(ctx context.Context, app *App) error {
				return NewAddCommand(app).Execute(ctx, args)
			})
		},
	}
	addCmd.Flags().StringP("mode", "m", "", "immediate or delayed (overrides TL_ADD_DEFAULT_MODE)")

	deleteCmd := &cobra.Command{
		Use:   "delete [task name]",
		Short: "Delete a task",
		Long:  "Delete the task with exactly this name. Incomplete tasks ask for confirmation first.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runWithApp(func(ctx context.Context, app *App) error {
				return NewDeleteCommand(app).Execute(ctx, args)
			})
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Show all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runWithApp(func(ctx context.Context, app *App) error {
				return NewViewCommand(app).Execute(ctx, args)
			})
		},
	}

	completeCmd := &cobra.Command{
		Use:   "complete [task name]",
		Short: "Mark a task complete",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if undo, _ := cmd.Flags().GetBool("undo"); undo {
				args = append([]string{"undo"}, args...)
			}
			return r.runWithApp(func(ctx context.Context, app *App) error {
				return NewCompleteCommand(app).Execute(ctx, args)
			})
		},
	}
	completeCmd.Flags().Bool("undo", false, "Mark the task incomplete instead")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runWithApp(func(ctx context.Context, app *App) error {
				return NewClearCommand(app).Execute(ctx, args)
			})
		},
	}

	outputCmd := &cobra.Command{
		Use:   "output format=csv",
		Short: "Export tasks in the specified format",
		Long: `Export the task list.

Supported formats:
  csv  - Comma-separated values
  json - The stored record array
  yaml - YAML sequence

Example:
  tl output format=yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runWithApp(func(ctx context.Context, app *App) error {
				return NewOutputCommand(app).Execute(ctx, args)
			})
		},
	}

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long:  "Run add, delete, view, toggle, save, complete, clear and output against one in-memory list until quit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, cleanup, err := OpenApp(ctx, r.config, r.streams, nil)
			if err != nil {
				return err
			}
			defer cleanup()
			return NewShellCommand(app).Execute(ctx, args)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				r.config.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			feed := notify.NewFeed(100)
			app, cleanup, err := OpenApp(ctx, r.config, r.streams, feed)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintf(r.streams.Out, "listening on %s\n", r.config.Server.Addr)
			return web.NewServer(app.Service(), feed).Run(ctx, r.config.Server.Addr)
		},
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides TL_SERVER_ADDR)")

	r.cmd.AddCommand(
		addCmd,
		deleteCmd,
		viewCmd,
		completeCmd,
		clearCmd,
		outputCmd,
		shellCmd,
		serveCmd,
	)
}

// runWithApp opens the store, runs fn under the command timeout and waits
// for deferred adds before closing
func (r *RootCommand) runWithApp(fn func(ctx context.Context, app *App) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout(r.config))
	defer cancel()

	app, cleanup, err := OpenApp(ctx, r.config, r.streams, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, app)
}

// loadConfig loads the configuration cascade and applies flags the user set
func (r *RootCommand) loadConfig(flags *pflag.FlagSet) error {
	if path, _ := flags.GetString("config"); path != "" {
		r.loader.WithFile(path)
	}

	cfg, err := r.loader.LoadWithOverrides(overridesFromFlags(flags))
	if err != nil {
		return err
	}

	r.config = cfg
	logging.SetVerbose(cfg.Application.Verbose)
	logging.Debugf("config: store %s key %q\n", cfg.GetDatabasePath(), cfg.Storage.Key)
	return nil
}

// overridesFromFlags returns an override for each flag set on the command line
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}

	if flags.Changed("store-dir") {
		v, _ := flags.GetString("store-dir")
		o.StoreDir = &v
	}
	if flags.Changed("store-filename") {
		v, _ := flags.GetString("store-filename")
		o.StoreFilename = &v
	}
	if flags.Changed("store-key") {
		v, _ := flags.GetString("store-key")
		o.StoreKey = &v
	}

	if flags.Changed("save-delay") {
		v, _ := flags.GetDuration("save-delay")
		o.SaveDelay = &v
	}
	if flags.Changed("load-delay") {
		v, _ := flags.GetDuration("load-delay")
		o.LoadDelay = &v
	}
	if flags.Changed("deferred-add-delay") {
		v, _ := flags.GetDuration("deferred-add-delay")
		o.DeferredAddDelay = &v
	}

	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	if flags.Changed("yes") {
		v, _ := flags.GetBool("yes")
		o.AssumeYes = &v
	}

	if flags.Changed("output-format") {
		v, _ := flags.GetString("output-format")
		o.OutputDefaultFormat = &v
	}

	return o
}
