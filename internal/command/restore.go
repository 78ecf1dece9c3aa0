package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/history/entry"
	"github.com/keshon/ghist/internal/history/group"
	"github.com/keshon/ghist/internal/history/restore"
	"github.com/keshon/ghist/internal/ux"
)

// Prompter asks on the context's terminal unless --yes or assume_yes is set.
func (ctx *Context) Prompter() restore.Prompter {
	if ctx.Config != nil && ctx.Config.AssumeYes {
		return restore.AutoApprove()
	}
	root := ""
	if ctx.History != nil {
		root = ctx.History.Workspace
	}
	return restore.NewInteractivePrompterWithIO(ctx.Stdin, ctx.Stdout, root)
}

// ModeFlags binds the --before/--after pair used by group restores.
type ModeFlags struct {
	before bool
	after  bool
}

func (m *ModeFlags) Register(fs *pflag.FlagSet) {
	fs.BoolVar(&m.before, "before", false, "restore to the state before the change")
	fs.BoolVar(&m.after, "after", false, "restore to the state after the change")
}

// Mode returns the selected mode; exactly one flag must be set.
func (m *ModeFlags) Mode() (restore.Mode, error) {
	switch {
	case m.before && m.after:
		return 0, errors.New("--before and --after are mutually exclusive")
	case m.before:
		return restore.Before, nil
	case m.after:
		return restore.After, nil
	default:
		return 0, errors.New("one of --before or --after is required")
	}
}

// PrintReport summarizes a restore outcome.
func PrintReport(w io.Writer, rep *restore.Report, root string) {
	if rep == nil {
		return
	}
	for _, b := range rep.Saved {
		fmt.Fprintf(w, "%s saved edits of %s to %s\n", ux.IconArrow.Render(), ux.RelPath(root, b.Path), ux.RelPath(root, b.Copy))
	}
	for _, p := range rep.Applied {
		fmt.Fprintf(w, "%s %s\n", ux.IconSuccess.Render(), ux.RelPath(root, p))
	}
	for _, p := range rep.Unchanged {
		fmt.Fprintf(w, "%s %s %s\n", ux.IconBullet.Render(), ux.RelPath(root, p), ux.Styles.Muted.Render("(unchanged)"))
	}
	for _, f := range rep.Failed {
		fmt.Fprintf(w, "%s %s: %v\n", ux.IconError.Render(), ux.RelPath(root, f.Path), f.Err)
	}
	fmt.Fprintf(w, "Restored %s, %d unchanged, %d failed\n", ux.Files(len(rep.Applied)), len(rep.Unchanged), len(rep.Failed))
}

// PlanFunc builds a restore plan for a group, matching the method
// expressions (*restore.Engine).PlanGroup and (*restore.Engine).PlanAll.
type PlanFunc func(eng *restore.Engine, ctx context.Context, g *entry.Group, mode restore.Mode) (*restore.Plan, error)

// GroupRestore holds the flags shared by the group restore commands.
type GroupRestore struct {
	ModeFlags
	window int
	dryRun bool
}

func (r *GroupRestore) Register(fs *pflag.FlagSet) {
	r.ModeFlags.Register(fs)
	fs.IntVar(&r.window, "window", 0, "grouping window in seconds the key was listed with")
	fs.BoolVar(&r.dryRun, "dry-run", false, "print the plan without writing")
}

// Run resolves the group named by the single argument, plans with plan and
// executes it, or only prints it with --dry-run.
func (r *GroupRestore) Run(ctx *Context, plan PlanFunc) error {
	if len(ctx.Args) != 1 {
		return errors.New("expected exactly one group key")
	}
	mode, err := r.Mode()
	if err != nil {
		return err
	}

	h := ctx.History
	view, err := h.View()
	if err != nil {
		return err
	}
	if ctx.Flags.Changed("window") {
		if err := view.SetTimeWindowSeconds(r.window); err != nil {
			return err
		}
	}

	entries, err := h.Entries(ctx)
	if err != nil {
		return err
	}
	g, err := group.Find(group.Group(entries, view.Window()), ctx.Args[0])
	if err != nil {
		return err
	}

	eng := h.Engine(ctx.Prompter(), entries)
	p, err := plan(eng, ctx, g, mode)
	if err != nil {
		return err
	}
	if r.dryRun {
		fmt.Fprint(ctx.Stdout, p.Describe(h.Workspace))
		return nil
	}

	rep, err := eng.Execute(ctx, p)
	PrintReport(ctx.Stdout, rep, h.Workspace)
	return err
}
