// Package history assembles the reader, grouper, restore engine and
// watcher over one snapshot store and workspace.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keshon/ghist/internal/config"
	"github.com/keshon/ghist/internal/fs"
	"github.com/keshon/ghist/internal/history/entry"
	"github.com/keshon/ghist/internal/history/group"
	"github.com/keshon/ghist/internal/history/include"
	"github.com/keshon/ghist/internal/history/index"
	"github.com/keshon/ghist/internal/history/restore"
	"github.com/keshon/ghist/internal/history/store"
	"github.com/keshon/ghist/internal/history/watch"
	"github.com/keshon/ghist/internal/progress"
)

// History is the assembled grouped-history stack.
type History struct {
	Config    *config.Config
	Workspace string
	FS        fs.FS
	Store     store.Store
	Include   *include.Matcher
	Reader    *index.Reader
	Progress  *progress.Tracker
	Log       *slog.Logger
}

// Options allows optional dependency injection.
type Options struct {
	FS        fs.FS
	Store     store.Store
	Workspace string
	Progress  *progress.Tracker
	Logger    *slog.Logger
}

// Open assembles History. The include file is loaded (and written with
// defaults when missing).
func Open(cfg *config.Config, opts *Options) (*History, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil Config provided")
	}
	if opts == nil {
		opts = &Options{}
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = fs.NewOSFS()
	}

	workspace := opts.Workspace
	if workspace == "" {
		ws, err := cfg.ResolveWorkspace()
		if err != nil {
			return nil, fmt.Errorf("resolve workspace: %w", err)
		}
		workspace = ws
	}

	st := opts.Store
	if st == nil {
		root, err := cfg.ResolveStoreRoot()
		if err != nil {
			return nil, fmt.Errorf("resolve snapshot store: %w", err)
		}
		st = store.NewFSStore(root, fsys)
	}

	matcher := include.New(cfg.ResolveIncludeFile(workspace), fsys)
	if err := matcher.Load(); err != nil {
		return nil, err
	}

	return &History{
		Config:    cfg,
		Workspace: workspace,
		FS:        fsys,
		Store:     st,
		Include:   matcher,
		Reader:    index.NewReader(st, matcher, log),
		Progress:  opts.Progress,
		Log:       log,
	}, nil
}

// Entries scans the store for the workspace.
func (h *History) Entries(ctx context.Context) ([]*entry.Entry, error) {
	return h.Reader.Scan(ctx, h.Workspace)
}

// View returns a view configured from the config file.
func (h *History) View() (*group.View, error) {
	v := group.NewView()
	if err := v.SetTimeWindowSeconds(h.Config.WindowSeconds); err != nil {
		return nil, err
	}
	order, err := group.ParseSortOrder(h.Config.Sort)
	if err != nil {
		return nil, err
	}
	v.SetSortOrder(order)
	return v, nil
}

// Engine returns a restore engine whose unsaved-change detection compares
// files against the newest of entries.
func (h *History) Engine(prompter restore.Prompter, entries []*entry.Entry) *restore.Engine {
	return &restore.Engine{
		History:   h.Reader,
		FS:        h.FS,
		Prompter:  prompter,
		Documents: restore.NewDriftDocuments(h.FS, entries, h.Reader.LoadContent, h.Log),
		Workspace: h.Workspace,
		Progress:  h.Progress,
		Log:       h.Log.With("component", "restore"),
	}
}

// Watcher creates a workspace watcher feeding the reader.
func (h *History) Watcher(onBatch func(watch.Batch)) (*watch.Watcher, error) {
	return watch.New(h.Workspace, h.Reader, h.Include, &watch.Options{
		Debounce:    h.Config.Watch.Debounce,
		IncludeFile: h.Include.File(),
		OnBatch:     onBatch,
		Logger:      h.Log,
	})
}
