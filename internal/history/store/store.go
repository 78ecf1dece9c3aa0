// Package store is the narrow, read-only view of the editor's snapshot
// store: one directory per tracked file holding content blobs and an
// optional entries.json index record.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/keshon/ghist/internal/fs"
	"github.com/keshon/ghist/internal/history/entry"
)

// Store abstracts the snapshot store.
type Store interface {
	Root() string
	ListDirectories(ctx context.Context) ([]string, error)
	ReadIndexRecord(dir string) (*IndexRecord, error)
	ListSnapshots(dir string) ([]Snapshot, error)
	StatSnapshot(dir, id string) (Snapshot, error)
	ReadSnapshot(path string) ([]byte, error)
	SnapshotPath(dir, id string) string
}

// Snapshot describes one blob on disk.
type Snapshot struct {
	ID      string
	ModTime time.Time
	Size    int64
}

// FSStore implements Store over an fs.FS rooted at Dir.
type FSStore struct {
	Dir string
	FS  fs.FS
}

// NewFSStore creates a store rooted at dir.
func NewFSStore(dir string, fsys fs.FS) *FSStore {
	return &FSStore{Dir: dir, FS: fsys}
}

func (s *FSStore) Root() string { return s.Dir }

// ListDirectories returns the snapshot directory ids in name order.
func (s *FSStore) ListDirectories(ctx context.Context) ([]string, error) {
	items, err := s.FS.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %q: %v", entry.ErrStoreUnreadable, s.Dir, err)
	}
	var dirs []string
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if it.IsDir() {
			dirs = append(dirs, it.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadIndexRecord loads and parses dir's entries.json.
func (s *FSStore) ReadIndexRecord(dir string) (*IndexRecord, error) {
	data, err := s.FS.ReadFile(filepath.Join(s.Dir, dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s/%s: %v", entry.ErrIndexCorrupt, dir, IndexFile, err)
	}
	return ParseIndexRecord(data)
}

// ListSnapshots returns every blob in dir except the index record.
func (s *FSStore) ListSnapshots(dir string) ([]Snapshot, error) {
	items, err := s.FS.ReadDir(filepath.Join(s.Dir, dir))
	if err != nil {
		return nil, fmt.Errorf("%w: list %q: %v", entry.ErrStoreUnreadable, dir, err)
	}
	var out []Snapshot
	for _, it := range items {
		if it.IsDir() || it.Name() == IndexFile {
			continue
		}
		snap, err := s.StatSnapshot(dir, it.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func (s *FSStore) StatSnapshot(dir, id string) (Snapshot, error) {
	info, err := s.FS.Stat(s.SnapshotPath(dir, id))
	if err != nil {
		return Snapshot{}, fmt.Errorf("stat snapshot %s/%s: %w", dir, id, err)
	}
	return Snapshot{ID: id, ModTime: info.ModTime(), Size: info.Size()}, nil
}

func (s *FSStore) ReadSnapshot(path string) ([]byte, error) {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", path, err)
	}
	return data, nil
}

func (s *FSStore) SnapshotPath(dir, id string) string {
	return filepath.Join(s.Dir, dir, id)
}
