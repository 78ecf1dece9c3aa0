package middleware

import (
	"github.com/keshon/ghist/internal/command"
)

// WithDebugArgsPrint logs the command name and positional args at debug level.
func WithDebugArgsPrint() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				ctx.Logger.Debug("run command", "command", cmd.Name(), "args", ctx.Args)
				return cmd.Run(ctx)
			},
		}
	}
}
