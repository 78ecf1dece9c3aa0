package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/keshon/ghist/internal/fs"
)

// NewFileMode is the permission of files WriteFile creates.
const NewFileMode os.FileMode = 0o644

// WriteFile replaces path atomically: the data goes to a temp file in the
// same directory which is then renamed over path. Parent directories are
// created as needed. An existing file keeps its permission bits.
func WriteFile(fsys fs.FS, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	mode := NewFileMode
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !fsys.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	tmpFile, tmpPath, err := fsys.CreateTempFile(dir, ".ghist-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		fsys.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		fsys.Remove(tmpPath)
		return err
	}
	if err := fsys.Chmod(tmpPath, mode); err != nil {
		fsys.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}

	// Atomically rename
	if err := fsys.Rename(tmpPath, path); err != nil {
		fsys.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// SortedKeys returns the keys of a map sorted alphabetically.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
