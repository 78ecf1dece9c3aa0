package restore

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history/index"
	"github.com/keshon/ghist/internal/middleware"
)

type Command struct {
	before bool
}

func (c *Command) Name() string      { return "restore" }
func (c *Command) Aliases() []string { return []string{"rs"} }
func (c *Command) Usage() string     { return "restore [--before] <entry>" }
func (c *Command) Brief() string     { return "Restore one file to a history entry" }
func (c *Command) Help() string {
	return `Restore a single file to the content of a history entry. With --before
the file gets the version preceding the entry instead, or is emptied if
the entry is its first version.

Options:
      --before   Restore the version before the entry.

Examples:
  ghist restore 5f3a21c0/AbC1.go
  ghist restore --before 5f3a21c0/AbC1.go`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.before, "before", false, "restore the version before the entry")
}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return errors.New("expected exactly one entry reference")
	}

	h := ctx.History
	entries, err := h.Entries(ctx)
	if err != nil {
		return err
	}
	e, err := index.Find(entries, ctx.Args[0])
	if err != nil {
		return err
	}

	eng := h.Engine(ctx.Prompter(), entries)
	restoreFn := eng.RestoreEntry
	if c.before {
		restoreFn = eng.RestoreEntryToBefore
	}
	rep, err := restoreFn(ctx, e)
	command.PrintReport(ctx.Stdout, rep, h.Workspace)
	return err
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.Stack()...,
		),
	)
}
