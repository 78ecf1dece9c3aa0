package watch

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/command/list"
	histwatch "github.com/keshon/ghist/internal/history/watch"
	"github.com/keshon/ghist/internal/middleware"
	"github.com/keshon/ghist/internal/ux"
)

type Command struct {
	interval time.Duration
	limit    int
}

func (c *Command) Name() string      { return "watch" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "watch [options]" }
func (c *Command) Brief() string     { return "Track new files and reprint groups as history changes" }
func (c *Command) Help() string {
	return `Watch the workspace for created files and register them so their
history is found before the editor writes an index record. Whenever a
rescan is pending the grouped history is printed again. Edits to the
include file are picked up on the next refresh.

Stops on Ctrl-C.

Options:
      --interval <dur>   Refresh interval (default from config, 2s).
  -n, --limit <n>        Print at most n groups.`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", 0, "refresh interval")
	fs.IntVarP(&c.limit, "limit", "n", 10, "print at most n groups")
}

func (c *Command) Run(ctx *command.Context) error {
	h := ctx.History
	interval := h.Config.Watch.RefreshInterval
	if c.interval > 0 {
		interval = c.interval
	}
	view, err := h.View()
	if err != nil {
		return err
	}

	var mu sync.Mutex
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(ctx.Stdout, format, args...)
	}
	show := func() error {
		entries, err := h.Entries(ctx)
		if err != nil {
			return err
		}
		groups := view.Apply(entries)
		if c.limit > 0 && c.limit < len(groups) {
			groups = groups[:c.limit]
		}
		mu.Lock()
		defer mu.Unlock()
		list.Render(ctx.Stdout, groups, list.Options{Workspace: h.Workspace, Now: time.Now()})
		return nil
	}

	w, err := h.Watcher(func(b histwatch.Batch) {
		for _, p := range b.Registered {
			printf("%s tracking %s\n", ux.IconArrow.Render(), ux.RelPath(h.Workspace, p))
		}
		for _, p := range b.Collisions {
			printf("%s %s shares a history directory with another file\n", ux.IconWarning.Render(), ux.RelPath(h.Workspace, p))
		}
		if b.IncludeChanged {
			printf("%s include file changed\n", ux.IconArrow.Render())
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", h.Workspace, err)
	}
	defer w.Close()

	if err := show(); err != nil {
		return err
	}
	h.Log.Info("watching", "workspace", h.Workspace, "interval", interval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(gctx) })
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				pending, err := h.Reader.Refresh(gctx)
				if err != nil {
					if gctx.Err() != nil {
						return nil
					}
					return err
				}
				if !pending {
					continue
				}
				printf("\n")
				if err := show(); err != nil {
					return err
				}
			}
		}
	})
	return g.Wait()
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.Stack()...,
		),
	)
}
