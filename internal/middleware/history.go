package middleware

import (
	"fmt"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history"
	"github.com/keshon/ghist/internal/progress"
)

// WithHistory opens the history stack for the command. It must wrap a
// command already wrapped by WithConfig.
func WithHistory() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				if ctx.Config == nil {
					return fmt.Errorf("%s: no configuration loaded", cmd.Name())
				}
				opts := history.Options{}
				if ctx.HistoryOptions != nil {
					opts = *ctx.HistoryOptions
				}
				if opts.Logger == nil {
					opts.Logger = ctx.Logger
				}
				if opts.Progress == nil {
					opts.Progress = &progress.Tracker{Out: ctx.Stderr}
				}

				h, err := history.Open(ctx.Config, &opts)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				ctx.History = h
				return cmd.Run(ctx)
			},
		}
	}
}

// WithStoreCheck warns when the snapshot store root does not exist. The
// command still runs and sees an empty history.
func WithStoreCheck() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				if h := ctx.History; h != nil && !h.FS.IsDir(h.Store.Root()) {
					h.Log.Warn("snapshot store not found", "root", h.Store.Root())
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// Stack is the chain for commands that read history. Config loads first,
// then history opens, then the store is checked.
func Stack() []command.Middleware {
	return []command.Middleware{
		WithDebugArgsPrint(),
		WithStoreCheck(),
		WithHistory(),
		WithConfig(),
	}
}
