package restoreall

import (
	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history/restore"
	"github.com/keshon/ghist/internal/middleware"
)

type Command struct {
	command.GroupRestore
}

func (c *Command) Name() string      { return "restore-all" }
func (c *Command) Aliases() []string { return []string{"ra"} }
func (c *Command) Usage() string     { return "restore-all <group> --before|--after" }
func (c *Command) Brief() string     { return "Restore the whole workspace to a change group" }
func (c *Command) Help() string {
	return `Restore the workspace to the moment of one change group. Files of the
group are restored as by 'restore-group'; every other file with history
newer than the group goes back to its version at the group's time, or is
emptied if it had none.

Options:
      --before         Group files to their state before the change.
      --after          Group files to their state after the change.
      --window <sec>   Window the key was listed with (default from config).
      --dry-run        Print the plan without writing.

Examples:
  ghist restore-all 1717243200000 --after
  ghist ra 1717243200000 --before -y`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        { c.Register(fs) }

func (c *Command) Run(ctx *command.Context) error {
	return c.GroupRestore.Run(ctx, (*restore.Engine).PlanAll)
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.Stack()...,
		),
	)
}
