package list

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history/entry"
	"github.com/keshon/ghist/internal/history/group"
	"github.com/keshon/ghist/internal/middleware"
	"github.com/keshon/ghist/internal/ux"
)

type Command struct {
	window   int
	sort     string
	files    int
	minFiles int
	search   string
	expand   bool
	limit    int
}

func (c *Command) Name() string      { return "list" }
func (c *Command) Aliases() []string { return []string{"ls"} }
func (c *Command) Usage() string     { return "list [options]" }
func (c *Command) Brief() string     { return "Show changes grouped by time" }
func (c *Command) Help() string {
	return `List local history grouped into changes. Entries of any file whose
timestamps fall within the window of a group's newest entry belong to
that group.

Options:
      --window <sec>     Grouping window in seconds (default from config, 5).
      --sort <order>     newest, oldest, most-files or fewest-files.
      --files <n>        Only groups touching exactly n files.
      --min-files <n>    Only groups touching at least n files.
      --search <text>    Only groups with a file name containing text.
  -e, --expand           Show every entry of each group.
  -n, --limit <n>        Show at most n groups (0 shows all).

With --verbose, a footer counts snapshot directories that contributed no
entries and entries reattached to files created while watching.

Examples:
  ghist list
  ghist ls --min-files 3 --sort most-files
  ghist list --search handler -e`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.IntVar(&c.window, "window", 0, "grouping window in seconds")
	fs.StringVar(&c.sort, "sort", "", "newest, oldest, most-files or fewest-files")
	fs.IntVar(&c.files, "files", 0, "only groups touching exactly n files")
	fs.IntVar(&c.minFiles, "min-files", 0, "only groups touching at least n files")
	fs.StringVar(&c.search, "search", "", "filter by file name")
	fs.BoolVarP(&c.expand, "expand", "e", false, "show every entry")
	fs.IntVarP(&c.limit, "limit", "n", 0, "show at most n groups")
}

func (c *Command) Run(ctx *command.Context) error {
	h := ctx.History
	view, err := h.View()
	if err != nil {
		return err
	}
	if err := c.configure(ctx.Flags, view); err != nil {
		return err
	}

	entries, err := h.Entries(ctx)
	if err != nil {
		return err
	}
	groups := view.Apply(entries)
	if c.limit > 0 && c.limit < len(groups) {
		groups = groups[:c.limit]
	}

	Render(ctx.Stdout, groups, Options{
		Workspace: h.Workspace,
		Search:    view.Search,
		Expand:    c.expand,
		Now:       time.Now(),
	})
	if ctx.Global.Verbose {
		RenderStoreSummary(ctx.Stdout, entries, h.Reader.Unused())
	}
	return nil
}

func (c *Command) configure(fs *pflag.FlagSet, view *group.View) error {
	if fs.Changed("window") {
		if err := view.SetTimeWindowSeconds(c.window); err != nil {
			return err
		}
	}
	if c.sort != "" {
		order, err := group.ParseSortOrder(c.sort)
		if err != nil {
			return err
		}
		view.SetSortOrder(order)
	}

	switch {
	case fs.Changed("files") && fs.Changed("min-files"):
		return errors.New("--files and --min-files are mutually exclusive")
	case fs.Changed("files"):
		if err := view.SetFileCountFilter(group.ExactFiles, c.files); err != nil {
			return err
		}
	case fs.Changed("min-files"):
		if err := view.SetFileCountFilter(group.MinFiles, c.minFiles); err != nil {
			return err
		}
	}

	if c.limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", c.limit)
	}
	view.SetSearch(c.search)
	return nil
}

// Options control Render.
type Options struct {
	Workspace string
	Search    string
	Expand    bool
	Now       time.Time
}

// Render prints groups: key, summary, timestamp and age, then either every
// entry or the list of files.
func Render(w io.Writer, groups []*entry.Group, opts Options) {
	if opts.Search != "" {
		fmt.Fprintf(w, "🔍 Search: %q\n\n", opts.Search)
	}
	if len(groups) == 0 {
		fmt.Fprintln(w, "No changes found")
		return
	}

	for _, g := range groups {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			ux.Styles.Key.Render(g.Key()),
			ux.Styles.Bold.Render(g.Summary),
			ux.Timestamp(g.Timestamp),
			ux.Styles.Muted.Render(ux.Relative(g.Timestamp, opts.Now)),
		)
		if opts.Expand {
			for _, e := range g.Changes {
				fmt.Fprintf(w, "    %s %s  %s %s %s\n",
					ux.IconBullet.Render(),
					filepath.Base(e.FilePath),
					e.Timestamp.Local().Format(ux.ClockFormat),
					ux.IconBullet.Render(),
					ux.Styles.Muted.Render(ux.RelPath(opts.Workspace, e.FilePath)+"  "+e.Ref()),
				)
			}
		} else {
			for _, f := range g.Files {
				fmt.Fprintf(w, "    %s %s\n", ux.IconBullet.Render(), ux.RelPath(opts.Workspace, f))
			}
		}
	}
	fmt.Fprintf(w, "\nTotal changes: %d\n", len(groups))
}

// RenderStoreSummary prints what the grouped view leaves out: snapshot
// directories that contributed nothing and reattached entries.
func RenderStoreSummary(w io.Writer, entries []*entry.Entry, unused []string) {
	reattached := 0
	for _, e := range entries {
		if e.Source == entry.Reattached {
			reattached++
		}
	}
	fmt.Fprintf(w, "%s %d unused snapshot directories (no index record, other workspace or not included)\n",
		ux.IconBullet.Render(), len(unused))
	fmt.Fprintf(w, "%s %d reattached entries\n", ux.IconBullet.Render(), reattached)
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.Stack()...,
		),
	)
}
