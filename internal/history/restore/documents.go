package restore

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/keshon/ghist/internal/fs"
	"github.com/keshon/ghist/internal/history/entry"
	"github.com/keshon/ghist/internal/util"
)

// BackupTimeFormat stamps backup copies written by DriftDocuments.Save.
const BackupTimeFormat = "20060102-150405"

// Backup is a copy of unsaved content taken before its file is restored.
type Backup struct {
	Path string
	Copy string
}

// Documents tracks modifications that exist outside the snapshot history.
type Documents interface {
	// Unsaved returns the subset of paths with unsaved modifications.
	Unsaved(ctx context.Context, paths []string) ([]string, error)
	// Save keeps the current content of paths where the restore won't
	// overwrite it.
	Save(ctx context.Context, paths []string) ([]Backup, error)
	Discard(ctx context.Context, paths []string) error
}

// DriftDocuments treats a file as unsaved when its content on disk differs
// from its newest snapshot, i.e. it holds edits the editor has not captured
// yet. Save copies such a file to "<name>.ghist-<time>.bak" next to it;
// Discard leaves it for the restore to overwrite.
type DriftDocuments struct {
	fs     fs.FS
	load   func(*entry.Entry) ([]byte, error)
	latest map[string]*entry.Entry
	log    *slog.Logger

	// Clock stamps backup names. Defaults to time.Now.
	Clock func() time.Time
}

// NewDriftDocuments indexes the newest entry of every file in entries.
func NewDriftDocuments(fsys fs.FS, entries []*entry.Entry, load func(*entry.Entry) ([]byte, error), log *slog.Logger) *DriftDocuments {
	if log == nil {
		log = slog.Default()
	}
	latest := make(map[string]*entry.Entry)
	for _, e := range entries {
		if cur, ok := latest[e.FilePath]; !ok || entry.Newer(e, cur) {
			latest[e.FilePath] = e
		}
	}
	return &DriftDocuments{fs: fsys, load: load, latest: latest, log: log.With("component", "documents"), Clock: time.Now}
}

func (d *DriftDocuments) Unsaved(ctx context.Context, paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, ok := d.latest[p]
		if !ok {
			continue
		}
		current, err := d.fs.ReadFile(p)
		if err != nil {
			if d.fs.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		snap, err := d.load(e)
		if err != nil {
			d.log.Debug("newest snapshot unreadable", "file", p, "error", err)
			continue
		}
		if !sameContent(current, snap) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *DriftDocuments) Save(ctx context.Context, paths []string) ([]Backup, error) {
	stamp := d.Clock().Format(BackupTimeFormat)
	var out []Backup
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		data, err := d.fs.ReadFile(p)
		if err != nil {
			return out, fmt.Errorf("save %s: %w", p, err)
		}
		cp := d.backupPath(p, stamp)
		if err := util.WriteFile(d.fs, cp, data); err != nil {
			return out, fmt.Errorf("save %s: %w", p, err)
		}
		d.log.Info("saved unsaved edits", "file", p, "copy", cp)
		out = append(out, Backup{Path: p, Copy: cp})
	}
	return out, nil
}

// backupPath picks a free "<name>.ghist-<stamp>[-N].bak" beside p.
func (d *DriftDocuments) backupPath(p, stamp string) string {
	base := p + ".ghist-" + stamp
	cp := base + ".bak"
	for n := 2; d.fs.Exists(cp); n++ {
		cp = base + "-" + strconv.Itoa(n) + ".bak"
	}
	return filepath.Clean(cp)
}

func (d *DriftDocuments) Discard(_ context.Context, paths []string) error {
	d.log.Info("discarding unsaved edits", "files", len(paths))
	return nil
}

// MemoryDocuments is an in-memory tracker for tests.
type MemoryDocuments struct {
	mu        sync.Mutex
	Dirty     map[string]bool
	Saved     []string
	Discarded []string
}

func NewMemoryDocuments(dirty ...string) *MemoryDocuments {
	m := &MemoryDocuments{Dirty: make(map[string]bool)}
	for _, p := range dirty {
		m.Dirty[p] = true
	}
	return m
}

func (m *MemoryDocuments) Unsaved(_ context.Context, paths []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range paths {
		if m.Dirty[p] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryDocuments) Save(_ context.Context, paths []string) ([]Backup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Backup
	for _, p := range paths {
		delete(m.Dirty, p)
		m.Saved = append(m.Saved, p)
		out = append(out, Backup{Path: p, Copy: p + ".saved"})
	}
	return out, nil
}

func (m *MemoryDocuments) Discard(_ context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range paths {
		delete(m.Dirty, p)
		m.Discarded = append(m.Discarded, p)
	}
	return nil
}

func sameContent(a, b []byte) bool {
	return len(a) == len(b) && xxh3.Hash(a) == xxh3.Hash(b)
}
