// Package cli implements the galaxy-launch command-line interface.
//
// Commands are built with Cobra around an [App], which holds every dependency
// a command needs. Tests construct an App with fakes and drive
// [NewRootCommand] directly.
//
// Key types:
//   - [App] is the dependency container shared by all commands
//   - [ExitError] carries a process exit code out of a command
//   - [ExecuteResult] is the outcome of [RunWithConfig]
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"galaxy-launch/internal/catalog"
	"galaxy-launch/internal/config"
	"galaxy-launch/internal/galaxy"
	"galaxy-launch/internal/launcher"
	"galaxy-launch/internal/logger"
	"galaxy-launch/internal/output"
)

// App holds the dependencies shared by all commands.
type App struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Printer *output.Printer
	Logger  logger.Logger

	// Platform is the Galaxy API. When nil, commands create a [galaxy.Client]
	// from Config.Platform.
	Platform launcher.Platform

	// Clipboard writes text to the system clipboard.
	Clipboard func(text string) error
}

// NewApp wires the production dependencies for cfg.
func NewApp(cfg *config.Config) (*App, error) {
	cat, err := catalog.Load(cfg)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:    cfg,
		Catalog:   cat,
		Printer:   output.NewPrinter(),
		Logger:    logger.New(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON}),
		Clipboard: clipboard.WriteAll,
	}, nil
}

func (a *App) platform() launcher.Platform {
	if a.Platform != nil {
		return a.Platform
	}
	return galaxy.NewClient(a.Config.Platform, a.Logger)
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var (
		logLevel string
		logJSON  bool
	)

	root := &cobra.Command{
		Use:   "galaxy-launch",
		Short: "Import and run published Galaxy workflows",
		Long: `galaxy-launch resolves a published Galaxy workflow to your own copy,
importing it first if you do not have one yet, and prints the URL of the
page that runs it.

Configuration is read from $GALAXY_LAUNCH_CONFIG_PATH, the user config
directory or ./config.yaml. Settings can be overridden with GALAXY_LAUNCH_*
environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			flags := cmd.Flags()
			if !flags.Changed("log-level") && !flags.Changed("log-json") {
				return
			}
			if flags.Changed("log-level") {
				app.Config.Log.Level = logLevel
			}
			if flags.Changed("log-json") {
				app.Config.Log.JSON = logJSON
			}
			app.Logger = logger.New(logger.Config{
				Level:  app.Config.Log.Level,
				JSON:   app.Config.Log.JSON,
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", app.Config.Log.Level, "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", app.Config.Log.JSON, "log in JSON format")

	root.AddCommand(
		newLaunchCommand(app),
		newFeaturedCommand(app),
		newLandingCommand(app),
	)

	return root
}

// ExecuteResult is the outcome of running the CLI.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig runs the CLI with the given configuration and arguments
// without exiting the process.
func RunWithConfig(ctx context.Context, cfg *config.Config, args []string) ExecuteResult {
	app, err := NewApp(cfg)
	if err != nil {
		return ExecuteResult{ExitCode: ExitFailure, Err: err}
	}
	return run(ctx, app, args)
}

func run(ctx context.Context, app *App, args []string) ExecuteResult {
	cmd := NewRootCommand(app)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		app.Printer.Error(err.Error())
		return ExecuteResult{ExitCode: ExitFailure, Err: err}
	}
	return ExecuteResult{ExitCode: ExitOK}
}

// Execute loads configuration, runs the CLI with os.Args and exits the process.
// An interrupt cancels the command's context.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	result := RunWithConfig(ctx, cfg, os.Args[1:])
	stop()

	os.Exit(result.ExitCode)
}
