// Package index reconstructs per-file history from the snapshot store,
// reconciling index records with what is actually on disk.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keshon/ghist/internal/history/dirhash"
	"github.com/keshon/ghist/internal/history/entry"
	"github.com/keshon/ghist/internal/history/store"
	"github.com/keshon/ghist/internal/util"
)

// Filter decides which workspace files are tracked.
type Filter interface {
	ShouldInclude(filePath, workspaceRoot string) bool
}

// reloader is implemented by filters backed by a file.
type reloader interface {
	Load() error
}

// FileState is a file touched after a reference point together with its
// latest entry at or before that point (nil if the file did not exist yet).
type FileState struct {
	FilePath  string
	Preceding *entry.Entry
}

// Collision records a registration refused because another path already
// owns the predicted directory id.
type Collision struct {
	Dir      string
	Owner    string
	Rejected string
}

// Reader scans the store. Its registries live as long as the Reader.
type Reader struct {
	store  store.Store
	filter Filter
	log    *slog.Logger

	mu         sync.Mutex
	created    map[string]string   // dir id -> registered path
	unused     map[string]struct{} // dirs with no usable index record
	seen       map[string]struct{} // file paths from the last scan
	collisions []Collision

	rescan atomic.Bool
}

// NewReader creates a reader. A nil logger uses slog.Default().
func NewReader(s store.Store, filter Filter, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.Default()
	}
	return &Reader{
		store:   s,
		filter:  filter,
		log:     log.With("component", "index"),
		created: make(map[string]string),
		unused:  make(map[string]struct{}),
		seen:    make(map[string]struct{}),
	}
}

// Scan returns every entry of every tracked workspace file, newest first.
// An unreadable store root yields no entries and no error.
func (r *Reader) Scan(ctx context.Context, workspaceRoot string) ([]*entry.Entry, error) {
	dirs, err := r.store.ListDirectories(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.log.Warn("snapshot store unreadable", "root", r.store.Root(), "error", err)
		return nil, nil
	}

	known := make(map[string]struct{}, len(dirs))
	var all []*entry.Entry

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := r.readKnown(dir, workspaceRoot)
		switch {
		case err == nil:
			known[dir] = struct{}{}
			all = append(all, entries...)
		case errors.Is(err, errRejected), errors.Is(err, entry.ErrIndexCorrupt):
			r.log.Debug("directory unused", "dir", dir, "reason", err)
			r.markUnused(dir)
		default:
			r.log.Warn("skipping snapshot directory", "dir", dir, "error", err)
		}
	}

	for dir, file := range r.reattachable(known) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !within(workspaceRoot, file) || !r.filter.ShouldInclude(file, workspaceRoot) {
			continue
		}
		entries, err := r.readReattached(dir, file)
		if err != nil {
			r.log.Warn("skipping reattached directory", "dir", dir, "error", err)
			continue
		}
		r.log.Debug("reattached directory", "dir", dir, "file", file, "entries", len(entries))
		all = append(all, entries...)
	}

	sort.SliceStable(all, func(i, j int) bool { return entry.Newer(all[i], all[j]) })

	seen := make(map[string]struct{})
	for _, e := range all {
		seen[e.FilePath] = struct{}{}
	}
	r.mu.Lock()
	r.seen = seen
	r.mu.Unlock()

	return all, nil
}

var errRejected = errors.New("outside workspace or not included")

// readKnown reads a directory through its index record, adding blobs the
// record does not declare with their mtime as timestamp.
func (r *Reader) readKnown(dir, workspaceRoot string) ([]*entry.Entry, error) {
	rec, err := r.store.ReadIndexRecord(dir)
	if err != nil {
		return nil, err
	}
	file, err := store.ResourcePath(rec.Resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRejected, err)
	}
	if !within(workspaceRoot, file) || !r.filter.ShouldInclude(file, workspaceRoot) {
		return nil, errRejected
	}
	return r.readRecord(dir, file, rec)
}

func (r *Reader) readRecord(dir, file string, rec *store.IndexRecord) ([]*entry.Entry, error) {
	snaps, err := r.store.ListSnapshots(dir)
	if err != nil {
		return nil, err
	}

	declared := make(map[string]struct{}, len(rec.Entries))
	out := make([]*entry.Entry, 0, len(rec.Entries)+len(snaps))
	for _, re := range rec.Entries {
		if _, dup := declared[re.ID]; dup {
			continue
		}
		declared[re.ID] = struct{}{}
		out = append(out, r.newEntry(dir, re.ID, file, time.UnixMilli(re.Timestamp), entry.Declared))
	}
	for _, s := range snaps {
		if _, ok := declared[s.ID]; ok {
			continue
		}
		out = append(out, r.newEntry(dir, s.ID, file, s.ModTime, entry.Synthesized))
	}
	return out, nil
}

func (r *Reader) readReattached(dir, file string) ([]*entry.Entry, error) {
	snaps, err := r.store.ListSnapshots(dir)
	if err != nil {
		return nil, err
	}
	out := make([]*entry.Entry, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, r.newEntry(dir, s.ID, file, s.ModTime, entry.Reattached))
	}
	return out, nil
}

func (r *Reader) newEntry(dir, id, file string, ts time.Time, src entry.Source) *entry.Entry {
	return &entry.Entry{
		Timestamp:       ts,
		FilePath:        file,
		HistoryFilePath: r.store.SnapshotPath(dir, id),
		Dir:             dir,
		ID:              id,
		Source:          src,
	}
}

// readDir reads a single directory the way a scan would, without the
// workspace and include checks.
func (r *Reader) readDir(dir, file string) ([]*entry.Entry, error) {
	rec, err := r.store.ReadIndexRecord(dir)
	if err == nil {
		if p, perr := store.ResourcePath(rec.Resource); perr == nil {
			file = p
		}
		return r.readRecord(dir, file, rec)
	}
	if !errors.Is(err, entry.ErrIndexCorrupt) {
		return nil, err
	}
	return r.readReattached(dir, file)
}

// PreviousEntry returns the entry of the same directory that immediately
// precedes e, or nil if e is the oldest. The result is always strictly
// older than e.
func (r *Reader) PreviousEntry(ctx context.Context, e *entry.Entry) (*entry.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := r.readDir(e.Dir, e.FilePath)
	if err != nil {
		return nil, fmt.Errorf("previous entry of %s: %w", e.Ref(), err)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entry.Less(entries[i], entries[j]) })

	idx := -1
	for i, cand := range entries {
		if cand.HistoryFilePath == e.HistoryFilePath {
			idx = i
			break
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if entries[i].Timestamp.Before(e.Timestamp) {
			return entries[i], nil
		}
	}
	return nil, nil
}

// EntriesAfter reports every file with an entry strictly after t, ordered
// by path.
func (r *Reader) EntriesAfter(ctx context.Context, workspaceRoot string, t time.Time) ([]FileState, error) {
	all, err := r.Scan(ctx, workspaceRoot)
	if err != nil {
		return nil, err
	}

	byFile := make(map[string][]*entry.Entry)
	for _, e := range all {
		byFile[e.FilePath] = append(byFile[e.FilePath], e)
	}

	var out []FileState
	for _, file := range util.SortedKeys(byFile) {
		history := byFile[file] // newest first
		if !history[0].Timestamp.After(t) {
			continue
		}
		state := FileState{FilePath: file}
		for _, e := range history {
			if !e.Timestamp.After(t) {
				state.Preceding = e
				break
			}
		}
		out = append(out, state)
	}
	return out, nil
}

// LoadContent returns an entry's snapshot content, read once.
func (r *Reader) LoadContent(e *entry.Entry) ([]byte, error) {
	return e.Content(r.store.ReadSnapshot)
}

// Find resolves an entry reference "<dir>/<id>" against a scan result.
func Find(entries []*entry.Entry, ref string) (*entry.Entry, error) {
	ref = strings.Trim(filepath.ToSlash(ref), "/")
	for _, e := range entries {
		if e.Ref() == ref {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", entry.ErrUnknownEntry, ref)
}

// RegisterCreated records the predicted directory id of a newly created
// file so that its snapshots can be reattached before the editor writes an
// index record. The first path registered for an id keeps it; a different
// path with the same id gets entry.ErrHashCollision.
func (r *Reader) RegisterCreated(path string) (string, error) {
	path = filepath.Clean(path)
	dir := dirhash.ForPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.created[dir]; ok {
		if owner == path {
			return dir, nil
		}
		r.collisions = append(r.collisions, Collision{Dir: dir, Owner: owner, Rejected: path})
		r.log.Warn("directory id collision", "dir", dir, "owner", owner, "rejected", path)
		return dir, fmt.Errorf("%w: %s and %s both map to %s", entry.ErrHashCollision, owner, path, dir)
	}
	r.created[dir] = path
	if _, ok := r.seen[path]; !ok {
		r.rescan.Store(true)
	}
	r.log.Debug("registered created file", "file", path, "dir", dir)
	return dir, nil
}

// Collisions lists every refused registration.
func (r *Reader) Collisions() []Collision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Collision(nil), r.collisions...)
}

// Unused lists directories without a usable index record, sorted.
func (r *Reader) Unused() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return util.SortedKeys(r.unused)
}

// Known reports whether the last scan produced entries for path.
func (r *Reader) Known(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[filepath.Clean(path)]
	return ok
}

// NeedsRescan reports whether a created file was registered since the last
// Refresh.
func (r *Reader) NeedsRescan() bool {
	return r.rescan.Load()
}

// MarkStale raises the rescan flag.
func (r *Reader) MarkStale() {
	r.rescan.Store(true)
}

// Refresh consumes the rescan flag and reloads the include filter. It
// reports whether a rescan had been requested.
func (r *Reader) Refresh(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	pending := r.rescan.Swap(false)
	if l, ok := r.filter.(reloader); ok {
		if err := l.Load(); err != nil {
			return pending, fmt.Errorf("reload include patterns: %w", err)
		}
	}
	return pending, nil
}

func (r *Reader) markUnused(dir string) {
	r.mu.Lock()
	r.unused[dir] = struct{}{}
	r.mu.Unlock()
}

// reattachable returns unused directories absent from this scan that have a
// registered file.
func (r *Reader) reattachable(known map[string]struct{}) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string)
	for dir := range r.unused {
		if _, ok := known[dir]; ok {
			continue
		}
		if file, ok := r.created[dir]; ok {
			out[dir] = file
		}
	}
	return out
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
