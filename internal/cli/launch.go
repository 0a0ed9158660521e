package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"galaxy-launch/internal/launcher"
)

type launchOptions struct {
	strategy string
	timeout  time.Duration
	copy     bool
	urlOnly  bool
	relative bool
}

func newLaunchCommand(app *App) *cobra.Command {
	opts := launchOptions{
		strategy: app.Config.Launcher.Strategy,
		timeout:  app.Config.Launcher.Timeout,
	}

	cmd := &cobra.Command{
		Use:   "launch <workflow-id|key>",
		Short: "Import a published workflow if needed and print its run URL",
		Long: `Resolve a published workflow to your own copy and print the URL of the
page that runs it.

The argument is either a featured workflow key (see "galaxy-launch featured")
or a published workflow id.

Strategies:
  check-then-import  reuse an existing "imported: <name>" copy when there is one
  always-import      import on every launch (creates a new copy each time)

Example:
  galaxy-launch launch rnaseq
  galaxy-launch launch 0a248a1f62a0cc04 --url-only --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd.Context(), app, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.strategy, "strategy", opts.strategy, "launch strategy ("+launcher.StrategyNames()+")")
	flags.DurationVar(&opts.timeout, "timeout", opts.timeout, "overall time limit for the launch (0 disables)")
	flags.BoolVar(&opts.copy, "copy", false, "copy the run URL to the clipboard")
	flags.BoolVar(&opts.urlOnly, "url-only", false, "print only the run URL")
	flags.BoolVar(&opts.relative, "relative", false, "print the run URL relative to the Galaxy base URL")

	return cmd
}

func runLaunch(ctx context.Context, app *App, arg string, opts launchOptions) error {
	workflowID, entry := app.Catalog.Resolve(arg)
	log := app.Logger.With("workflow_id", workflowID)
	if entry != nil {
		log = log.With("key", entry.Key)
	}

	l, err := launcher.New(app.platform(), launcher.Options{
		Strategy:      launcher.Strategy(opts.strategy),
		Rescans:       app.Config.Launcher.Rescans,
		RescanBackoff: app.Config.Launcher.RescanBackoff,
		Logger:        log,
	})
	if err != nil {
		app.Printer.Error(err.Error())
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if !opts.urlOnly {
		l.SetProgressCallback(app.Printer.Progress)
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	res, err := l.Resolve(ctx, workflowID)
	if err != nil {
		app.Printer.Error(describeFailure(err))
		return exitErrorFor(err)
	}

	target := res.URL
	if !opts.relative {
		target, err = launcher.AbsoluteURL(app.Config.Platform.BaseURL, res.URL)
		if err != nil {
			app.Printer.Error(err.Error())
			return &ExitError{Code: ExitFailure, Err: err}
		}
	}

	if opts.urlOnly {
		app.Printer.URL(target)
	} else {
		app.Printer.Resolved(res, target)
	}

	if opts.copy {
		if err := app.Clipboard(target); err != nil {
			err = fmt.Errorf("failed to copy to clipboard: %w", err)
			app.Printer.Error(err.Error())
			return &ExitError{Code: ExitFailure, Err: err}
		}
		if !opts.urlOnly {
			app.Printer.Copied()
		}
	}

	return nil
}

// describeFailure turns a resolution error into a message for the user.
func describeFailure(err error) string {
	switch {
	case errors.Is(err, launcher.ErrNoMatchFound):
		return fmt.Sprintf("The workflow was imported but its copy could not be found: %v", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Timed out talking to Galaxy: %v", err)
	case errors.Is(err, context.Canceled):
		return "Launch canceled"
	case errors.Is(err, launcher.ErrResolutionFailed):
		return fmt.Sprintf("Galaxy request failed: %v", err)
	default:
		return err.Error()
	}
}
