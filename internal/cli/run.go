package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// commandFunc is the body of a command. It returns the process exit code.
type commandFunc func(ctx context.Context, d *deps, w io.Writer) int

// run adapts a commandFunc to cobra: it wires the session stack, runs the
// body and exits with its code.
func run(fn commandFunc) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := execute(ctx, fn, os.Stdout)
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	}
}

func execute(ctx context.Context, fn commandFunc, w io.Writer) int {
	d, err := setup(ctx)
	if err != nil {
		return reportError(w, err)
	}
	defer d.Close()

	return fn(ctx, d, w)
}

// protected wraps fn so it only runs with a signed in session, the command
// line counterpart of the dashboard route guard.
func protected(fn commandFunc) commandFunc {
	return func(ctx context.Context, d *deps, w io.Writer) int {
		if _, err := d.guard.Require(); err != nil {
			d.logger.Debug("command requires a session")
			return reportLoginRequired(w)
		}
		return fn(ctx, d, w)
	}
}
