package restoregroup

import (
	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history/restore"
	"github.com/keshon/ghist/internal/middleware"
)

type Command struct {
	command.GroupRestore
}

func (c *Command) Name() string      { return "restore-group" }
func (c *Command) Aliases() []string { return []string{"rg"} }
func (c *Command) Usage() string     { return "restore-group <group> --before|--after" }
func (c *Command) Brief() string     { return "Restore every file of a change group" }
func (c *Command) Help() string {
	return `Restore the files of one change group, named by the key printed by
'list'. Other files are left alone.

  --before   Each file goes back to the version preceding its oldest
             entry in the group, or is emptied if it had none.
  --after    Each file gets its newest version in the group.

Options:
      --window <sec>   Window the key was listed with (default from config).
      --dry-run        Print the plan without writing.

Examples:
  ghist restore-group 1717243200000 --before
  ghist rg 1717243200000 --after --dry-run`
}

func (c *Command) Subcommands() []command.Command { return nil }
func (c *Command) Flags(fs *pflag.FlagSet)        { c.Register(fs) }

func (c *Command) Run(ctx *command.Context) error {
	return c.GroupRestore.Run(ctx, (*restore.Engine).PlanGroup)
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.Stack()...,
		),
	)
}
