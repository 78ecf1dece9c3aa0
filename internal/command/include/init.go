package include

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history/include"
	"github.com/keshon/ghist/internal/util"
	"github.com/keshon/ghist/internal/ux"
)

type InitCommand struct {
	force bool
}

func (c *InitCommand) Name() string                   { return "init" }
func (c *InitCommand) Aliases() []string              { return nil }
func (c *InitCommand) Usage() string                  { return "include init [--force]" }
func (c *InitCommand) Brief() string                  { return "Write the default include file" }
func (c *InitCommand) Subcommands() []command.Command { return nil }
func (c *InitCommand) Help() string {
	return `Write the default include file into the workspace root. The default
tracks nothing until an include pattern is uncommented. An existing file
is kept unless --force is given.`
}

func (c *InitCommand) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.force, "force", "f", false, "overwrite an existing include file")
}

func (c *InitCommand) Run(ctx *command.Context) error {
	ws, err := ctx.Workspace()
	if err != nil {
		return err
	}
	fsys := ctx.FS()
	file := ctx.Config.ResolveIncludeFile(ws)

	if c.force {
		if err := util.WriteFile(fsys, file, []byte(include.DefaultContent)); err != nil {
			return fmt.Errorf("write include file: %w", err)
		}
		fmt.Fprintf(ctx.Stdout, "%s Wrote %s\n", ux.IconSuccess.Render(), file)
		return nil
	}

	created, err := include.New(file, fsys).EnsureFile()
	if err != nil {
		return fmt.Errorf("write include file: %w", err)
	}
	if !created {
		fmt.Fprintf(ctx.Stdout, "%s already exists (use --force to overwrite)\n", file)
		return nil
	}
	fmt.Fprintf(ctx.Stdout, "%s Wrote %s\n", ux.IconSuccess.Render(), file)
	return nil
}
