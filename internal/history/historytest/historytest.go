// Package historytest builds in-memory snapshot stores and workspaces for
// tests.
package historytest

import (
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/fs"
	"github.com/keshon/ghist/internal/history/dirhash"
	"github.com/keshon/ghist/internal/history/store"
)

const (
	StoreRoot = "/history"
	Workspace = "/work"
)

// Snap describes one snapshot blob of a fixture directory.
type Snap struct {
	ID      string
	At      int64 // epoch ms; declared timestamp and blob mtime
	Content string

	Undeclared bool // blob on disk only, absent from entries.json
	Missing    bool // declared in entries.json, no blob on disk
}

// Fixture is a memory-backed store plus workspace.
type Fixture struct {
	t     testing.TB
	FS    *fs.MemoryFS
	Store *store.FSStore
}

// New creates an empty store at StoreRoot and workspace at Workspace.
func New(t testing.TB) *Fixture {
	t.Helper()
	mfs := fs.NewMemoryFS()
	require.NoError(t, mfs.MkdirAll(StoreRoot, 0o755))
	require.NoError(t, mfs.MkdirAll(Workspace, 0o755))
	return &Fixture{t: t, FS: mfs, Store: store.NewFSStore(StoreRoot, mfs)}
}

// Path returns the absolute workspace path of rel.
func (f *Fixture) Path(rel string) string {
	return path.Join(Workspace, rel)
}

// Millis converts epoch milliseconds to a time.
func Millis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// Track writes a snapshot directory for the workspace file rel with an
// index record and blobs, and returns the directory id.
func (f *Fixture) Track(rel string, snaps ...Snap) string {
	f.t.Helper()
	file := f.Path(rel)
	dir := dirhash.ForPath(file)

	rec := store.IndexRecord{Version: 1, Resource: store.ResourceURI(file), Entries: []store.RecordEntry{}}
	for _, s := range snaps {
		if !s.Undeclared {
			rec.Entries = append(rec.Entries, store.RecordEntry{ID: s.ID, Timestamp: s.At})
		}
	}
	data, err := json.Marshal(rec)
	require.NoError(f.t, err)
	f.WriteIndex(dir, string(data))

	for _, s := range snaps {
		if !s.Missing {
			f.AddBlob(dir, s.ID, s.Content, s.At)
		}
	}
	return dir
}

// WriteIndex writes raw entries.json content into dir.
func (f *Fixture) WriteIndex(dir, content string) {
	f.t.Helper()
	p := path.Join(StoreRoot, dir)
	require.NoError(f.t, f.FS.MkdirAll(p, 0o755))
	require.NoError(f.t, f.FS.WriteFile(path.Join(p, store.IndexFile), []byte(content), 0o644))
}

// AddBlob writes a snapshot blob with the given mtime.
func (f *Fixture) AddBlob(dir, id, content string, at int64) {
	f.t.Helper()
	p := path.Join(StoreRoot, dir)
	require.NoError(f.t, f.FS.MkdirAll(p, 0o755))
	blob := path.Join(p, id)
	require.NoError(f.t, f.FS.WriteFile(blob, []byte(content), 0o644))
	require.NoError(f.t, f.FS.Chtimes(blob, Millis(at), Millis(at)))
}

// WriteFile writes a workspace file, creating parent directories.
func (f *Fixture) WriteFile(rel, content string) {
	f.t.Helper()
	p := f.Path(rel)
	require.NoError(f.t, f.FS.MkdirAll(path.Dir(p), 0o755))
	require.NoError(f.t, f.FS.WriteFile(p, []byte(content), 0o644))
}

// ReadFile returns a workspace file's content.
func (f *Fixture) ReadFile(rel string) string {
	f.t.Helper()
	data, err := f.FS.ReadFile(f.Path(rel))
	require.NoError(f.t, err)
	return string(data)
}

// AllFiles includes every workspace file.
type AllFiles struct{}

func (AllFiles) ShouldInclude(filePath, workspaceRoot string) bool {
	rel, ok := Rel(filePath, workspaceRoot)
	return ok && rel != ""
}

// Rel returns filePath relative to root in slash form.
func Rel(filePath, root string) (string, bool) {
	root = path.Clean(root)
	filePath = path.Clean(filePath)
	if len(filePath) <= len(root) || filePath[:len(root)] != root || filePath[len(root)] != '/' {
		return "", false
	}
	return filePath[len(root)+1:], true
}
