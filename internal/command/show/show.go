package show

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history/index"
	"github.com/keshon/ghist/internal/history/restore"
	"github.com/keshon/ghist/internal/middleware"
	"github.com/keshon/ghist/internal/ux"
)

type Command struct {
	before bool
	after  bool
}

func (c *Command) Name() string      { return "show" }
func (c *Command) Aliases() []string { return []string{"preview"} }
func (c *Command) Usage() string     { return "show [options] <entry>" }
func (c *Command) Brief() string     { return "Preview an entry against its previous version" }
func (c *Command) Help() string {
	return `Show the content of a history entry and of the version before it.
An entry is named by its reference as printed by 'list --expand'.

Options:
      --before    Print only the previous version.
      --after     Print only the entry's version.

Examples:
  ghist show 5f3a21c0/AbC1.go
  ghist show --after 5f3a21c0/AbC1.go > old.go`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.before, "before", false, "print only the previous version")
	fs.BoolVar(&c.after, "after", false, "print only the entry's version")
}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) != 1 {
		return errors.New("expected exactly one entry reference")
	}
	if c.before && c.after {
		return errors.New("--before and --after are mutually exclusive")
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

	p, err := h.Engine(nil, entries).Preview(ctx, e)
	if err != nil {
		return err
	}

	switch {
	case c.before:
		_, err = ctx.Stdout.Write(p.Before)
	case c.after:
		_, err = ctx.Stdout.Write(p.After)
	default:
		render(ctx.Stdout, p, h.Workspace)
	}
	return err
}

func render(w io.Writer, p *restore.Preview, root string) {
	title := fmt.Sprintf("History: %s (%s)", ux.RelPath(root, p.Entry.FilePath), ux.Timestamp(p.Entry.Timestamp))
	fmt.Fprintln(w, ux.Styles.Title.Render(title))

	before := "Before"
	if p.Previous != nil {
		before = fmt.Sprintf("Before  %s  %s", p.Previous.Ref(), ux.Timestamp(p.Previous.Timestamp))
	}
	fmt.Fprintf(w, "\n%s\n%s\n", ux.Styles.Muted.Render(before), ux.Styles.Box.Render(string(p.Before)))
	after := fmt.Sprintf("After  %s  %s", p.Entry.Ref(), ux.Size(len(p.After)))
	fmt.Fprintf(w, "\n%s\n%s\n", ux.Styles.Muted.Render(after), ux.Styles.Box.Render(string(p.After)))
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.Stack()...,
		),
	)
}
