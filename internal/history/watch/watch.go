// Package watch observes the workspace for newly created files so their
// snapshot directories can be attributed before the editor indexes them.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/keshon/ghist/internal/history/entry"
)

// ErrClosed is returned by Run when the watcher stops before its context.
var ErrClosed = errors.New("file watcher closed")

// Registrar receives created files.
type Registrar interface {
	RegisterCreated(path string) (string, error)
	MarkStale()
}

// Filter decides which created files matter.
type Filter interface {
	ShouldInclude(filePath, workspaceRoot string) bool
}

// Batch is what one debounce window produced.
type Batch struct {
	Registered     []string
	Collisions     []string
	IncludeChanged bool
}

// Options tune a Watcher.
type Options struct {
	// Debounce is how long to wait for more events before handling them.
	// Default: 200ms
	Debounce time.Duration

	// IgnoreDirs are directory base names never watched.
	// Default: [".git", "node_modules"]
	IgnoreDirs []string

	// IncludeFile is the include file path; edits to it mark the reader
	// stale instead of registering.
	IncludeFile string

	// OnBatch is called after each handled batch.
	OnBatch func(Batch)

	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Debounce:   200 * time.Millisecond,
		IgnoreDirs: []string{".git", "node_modules"},
	}
}

// Watcher registers files created under root with a Registrar.
type Watcher struct {
	root     string
	reg      Registrar
	filter   Filter
	opts     Options
	log      *slog.Logger
	watcher  *fsnotify.Watcher
	stopOnce sync.Once
}

// New creates a watcher and adds root recursively. Call Run to process
// events and Close to release it.
func New(root string, reg Registrar, filter Filter, opts *Options) (*Watcher, error) {
	o := DefaultOptions()
	if opts != nil {
		if opts.Debounce > 0 {
			o.Debounce = opts.Debounce
		}
		if opts.IgnoreDirs != nil {
			o.IgnoreDirs = opts.IgnoreDirs
		}
		o.IncludeFile = opts.IncludeFile
		o.OnBatch = opts.OnBatch
		o.Logger = opts.Logger
	}
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:    filepath.Clean(root),
		reg:     reg,
		filter:  filter,
		opts:    o,
		log:     log.With("component", "watch"),
		watcher: fw,
	}
	if err := w.addRecursive(w.root, nil); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops the watcher. Run returns afterwards.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() { err = w.watcher.Close() })
	return err
}

// Run handles events until ctx is done (returning nil) or the watcher is
// closed (returning ErrClosed).
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	pending := make(map[string]struct{})
	includeChanged := false
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(pending) > 0 || includeChanged {
			w.handle(pending, includeChanged)
		}
		pending = make(map[string]struct{})
		includeChanged = false
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}
	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.opts.Debounce)
			timerC = timer.C
		} else {
			timer.Reset(w.opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return w.closed(ctx, flush)
			}
			if w.isIncludeFile(event.Name) {
				if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
					includeChanged = true
					arm()
				}
				continue
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				// files may land in a new directory before it is watched
				if err := w.addRecursive(event.Name, pending); err != nil {
					w.log.Warn("watch directory", "dir", event.Name, "error", err)
				}
			} else {
				pending[filepath.Clean(event.Name)] = struct{}{}
			}
			arm()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return w.closed(ctx, flush)
			}
			w.log.Warn("watcher error", "error", err)

		case <-timerC:
			flush()
		}
	}
}

func (w *Watcher) closed(ctx context.Context, flush func()) error {
	flush()
	if ctx.Err() != nil {
		return nil
	}
	return ErrClosed
}

func (w *Watcher) handle(created map[string]struct{}, includeChanged bool) {
	var b Batch
	for p := range created {
		if !w.filter.ShouldInclude(p, w.root) {
			continue
		}
		dir, err := w.reg.RegisterCreated(p)
		switch {
		case errors.Is(err, entry.ErrHashCollision):
			b.Collisions = append(b.Collisions, p)
		case err != nil:
			w.log.Warn("register created file", "file", p, "error", err)
		default:
			w.log.Debug("created file", "file", p, "dir", dir)
			b.Registered = append(b.Registered, p)
		}
	}
	if includeChanged {
		w.log.Info("include file changed", "file", w.opts.IncludeFile)
		w.reg.MarkStale()
		b.IncludeChanged = true
	}
	if w.opts.OnBatch != nil && (len(b.Registered) > 0 || len(b.Collisions) > 0 || b.IncludeChanged) {
		w.opts.OnBatch(b)
	}
}

func (w *Watcher) isIncludeFile(p string) bool {
	return w.opts.IncludeFile != "" && filepath.Clean(p) == filepath.Clean(w.opts.IncludeFile)
}

// addRecursive watches dir and its subdirectories. Files found on the way
// are added to found when it is non-nil.
func (w *Watcher) addRecursive(dir string, found map[string]struct{}) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // keep walking
		}
		if !d.IsDir() {
			if found != nil && !w.isIncludeFile(path) {
				found[filepath.Clean(path)] = struct{}{}
			}
			return nil
		}
		if path != w.root && w.ignored(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) ignored(name string) bool {
	for _, pattern := range w.opts.IgnoreDirs {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
