package include

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/middleware"
	"github.com/keshon/ghist/internal/ux"
)

// Base command for "include"
type Command struct{}

func (c *Command) Name() string      { return "include" }
func (c *Command) Aliases() []string { return []string{"inc"} }
func (c *Command) Usage() string     { return "include [path...] | include init [--force]" }
func (c *Command) Brief() string     { return "Show include patterns or test paths against them" }
func (c *Command) Help() string {
	return `Show the patterns of the workspace include file. Only files matching an
include pattern and no exclude pattern appear in history.

With paths, report for each whether it is tracked and whether the
snapshot store holds history for it yet.

Subcommands:
  init    Write the default include file.

Examples:
  ghist include
  ghist include src/main.go node_modules/x/index.js
  ghist include init --force`
}

func (c *Command) Subcommands() []command.Command {
	return []command.Command{
		command.ApplyMiddlewares(&InitCommand{}, middleware.WithDebugArgsPrint(), middleware.WithConfig()),
	}
}

func (c *Command) Flags(fs *pflag.FlagSet) {}

func (c *Command) Run(ctx *command.Context) error {
	h := ctx.History
	p := h.Include.Patterns()
	w := ctx.Stdout

	if len(ctx.Args) > 0 {
		if _, err := h.Entries(ctx); err != nil {
			return err
		}
		for _, arg := range ctx.Args {
			abs := arg
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(h.Workspace, arg)
			}
			switch {
			case !h.Include.ShouldInclude(abs, h.Workspace):
				fmt.Fprintf(w, "%s %s %s\n", ux.IconError.Render(), arg, ux.Styles.Muted.Render("(not tracked)"))
			case h.Reader.Known(abs):
				fmt.Fprintf(w, "%s %s\n", ux.IconSuccess.Render(), arg)
			default:
				fmt.Fprintf(w, "%s %s %s\n", ux.IconSuccess.Render(), arg, ux.Styles.Muted.Render("(no history yet)"))
			}
		}
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", ux.Styles.Muted.Render("Include file:"), h.Include.File())
	if len(p.Includes) == 0 {
		fmt.Fprintf(w, "%s No include patterns: nothing is tracked\n", ux.IconWarning.Render())
	} else {
		fmt.Fprintf(w, "\n%s\n", ux.Styles.Bold.Render("Includes:"))
		for _, pat := range p.Includes {
			fmt.Fprintf(w, "  %s\n", pat)
		}
	}
	if len(p.Excludes) > 0 {
		fmt.Fprintf(w, "\n%s\n", ux.Styles.Bold.Render("Excludes:"))
		for _, pat := range p.Excludes {
			fmt.Fprintf(w, "  !%s\n", pat)
		}
	}
	return nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.Stack()...,
		),
	)
}
