// Package fs is the filesystem seam shared by the snapshot store, the
// restore engine and the include file. OSFS backs the CLI; MemoryFS backs
// tests and carries settable modification times.
package fs

import (
	"io"
	"os"
	"time"
)

// FS abstracts filesystem operations.
type FS interface {
	// reading
	Open(path string) (io.ReadSeekCloser, error)
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]os.DirEntry, error)
	Stat(path string) (os.FileInfo, error)
	Exists(path string) bool
	IsDir(path string) bool
	IsNotExist(err error) bool

	// writing
	WriteFile(path string, data []byte, perm os.FileMode) error
	CreateTempFile(dir, pattern string) (io.WriteCloser, string, error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, mode os.FileMode) error

	// Chtimes sets modification times; snapshot timestamps fall back to them.
	Chtimes(path string, atime, mtime time.Time) error
}
