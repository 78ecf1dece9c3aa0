package command

import "github.com/spf13/pflag"

// Middleware is a function that wraps a command
type Middleware func(Command) Command

// WrappedCommand represents a command wrapped with a middleware
type WrappedCommand struct {
	Command
	Wrap func(ctx *Context) error
}

// Run executes the wrapped command
func (w *WrappedCommand) Run(ctx *Context) error {
	if w.Wrap != nil {
		return w.Wrap(ctx)
	}
	return w.Command.Run(ctx)
}

// ApplyMiddlewares wraps a command with any number of middlewares. The
// first middleware runs innermost.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// noFlags is a bare command used to render global flags on their own.
type noFlags struct{}

func (noFlags) Name() string            { return "ghist" }
func (noFlags) Aliases() []string       { return nil }
func (noFlags) Usage() string           { return "" }
func (noFlags) Brief() string           { return "" }
func (noFlags) Help() string            { return "" }
func (noFlags) Subcommands() []Command  { return nil }
func (noFlags) Flags(fs *pflag.FlagSet) {}
func (noFlags) Run(ctx *Context) error  { return nil }
