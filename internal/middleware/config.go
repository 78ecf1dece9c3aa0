package middleware

import (
	"fmt"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/config"
)

// WithConfig loads the configuration unless one was injected, applies the
// global flags over it and validates the result.
func WithConfig() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx *command.Context) error {
				if ctx.Config == nil {
					cfg, err := config.Load(ctx.Global.ConfigPath)
					if err != nil {
						return fmt.Errorf("load config: %w", err)
					}
					ctx.Config = cfg
				}
				if ctx.Global.Workspace != "" {
					ctx.Config.Workspace = ctx.Global.Workspace
				}
				if ctx.Global.Yes {
					ctx.Config.AssumeYes = true
				}
				if err := ctx.Config.Validate(); err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
				return cmd.Run(ctx)
			},
		}
	}
}
