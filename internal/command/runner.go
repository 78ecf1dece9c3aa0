package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/config"
	"github.com/keshon/ghist/internal/history"
	"github.com/keshon/ghist/internal/logging"
)

// Runner executes commands from a tree with injectable IO.
type Runner struct {
	Tree   *CommandTree // nil uses the global tree
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Logger, Config and HistoryOptions override what the runner and
	// middleware would build.
	Logger         *slog.Logger
	Config         *config.Config
	HistoryOptions *history.Options
}

// RunCLI is the main entrypoint for executing commands. It returns the
// process exit code.
func RunCLI(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &Runner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	return r.Run(ctx, args)
}

// Run parses args, resolves the command, applies flags and runs it.
// Exit codes: 0 success, 1 command error, 2 usage error.
func (r *Runner) Run(parent context.Context, args []string) int {
	t := r.Tree
	if t == nil {
		t = tree
	}
	if len(args) == 0 {
		if _, ok := t.Get("help"); !ok {
			fmt.Fprintln(r.Stderr, "Error: no command provided")
			return 2
		}
		args = []string{"help"}
	}

	node, remaining, err := t.Resolve(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "Error: %v\n\nRun 'ghist help' for usage.\n", err)
		return 2
	}
	cmd := node.Cmd

	fs := NewFlagSet(cmd)
	var g Global
	g.register(fs)
	if err := fs.Parse(remaining); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			PrintHelp(r.Stdout, cmd)
			return 0
		}
		msg := err.Error()
		if s := suggestFlag(remaining, fs); s != "" {
			msg = fmt.Sprintf("%s (did you mean %s?)", msg, s)
		}
		fmt.Fprintf(r.Stderr, "Error: %s\n\nRun 'ghist help %s' for usage.\n", msg, cmd.Name())
		return 2
	}

	ctx := &Context{
		Context:        parent,
		Args:           fs.Args(),
		Flags:          fs,
		Global:         g,
		Stdin:          r.Stdin,
		Stdout:         r.Stdout,
		Stderr:         r.Stderr,
		Logger:         r.logger(g.Verbose),
		Config:         r.Config,
		HistoryOptions: r.HistoryOptions,
	}

	if err := cmd.Run(ctx); err != nil {
		fmt.Fprintln(r.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (r *Runner) logger(verbose bool) *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	if f, ok := r.Stderr.(*os.File); ok && f == os.Stderr {
		return logging.New(verbose)
	}
	return logging.NewWithWriter(r.Stderr, true, verbose)
}

// NewFlagSet returns cmd's flag set; errors are returned, not printed.
func NewFlagSet(cmd Command) *pflag.FlagSet {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	cmd.Flags(fs)
	return fs
}
