package help

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/middleware"
)

type Command struct{}

func (c *Command) Name() string      { return "help" }
func (c *Command) Aliases() []string { return []string{"h", "?"} }
func (c *Command) Usage() string     { return "help [command]" }
func (c *Command) Brief() string     { return "Show help for commands" }
func (c *Command) Help() string {
	return `Display help information for commands.

Usage:
  help            List all commands.
  help <name>     Show detailed help for a specific command.
  help <a> <b>    Show help for a subcommand, e.g. 'help include init'.`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        {}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) > 0 {
		return runCommandHelp(ctx, ctx.Args)
	}
	return runListAllCommands(ctx)
}

// runCommandHelp shows detailed help for a specific command
func runCommandHelp(ctx *command.Context, args []string) error {
	lowered := make([]string, len(args))
	for i, a := range args {
		lowered[i] = strings.ToLower(a)
	}
	node, rest, err := command.ResolveCommand(lowered)
	if err != nil || len(rest) > 0 {
		return fmt.Errorf("unknown command: %s", strings.Join(args, " "))
	}
	command.PrintHelp(ctx.Stdout, node.Cmd)

	if subs := node.Cmd.Subcommands(); len(subs) > 0 {
		fmt.Fprint(ctx.Stdout, "\nSubcommands:\n")
		command.PrintCommands(ctx.Stdout, subs)
	}
	return nil
}

// runListAllCommands lists all commands in a Git-style layout
func runListAllCommands(ctx *command.Context) error {
	fmt.Fprint(ctx.Stdout, "ghist: grouped local history for your editor\n\nAvailable commands:\n\n")
	command.PrintCommands(ctx.Stdout, command.AllCommands())
	fmt.Fprintln(ctx.Stdout, "\nType 'ghist help <command>' to see detailed information about a specific command.")
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
