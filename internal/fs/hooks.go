package fs

import (
	"errors"
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// Hooks used for testing (overridable)
var (
	open       = func(path string) (io.ReadSeekCloser, error) { return os.Open(path) }
	readFile   = readMapped
	writeFile  = os.WriteFile
	stat       = os.Stat
	readDir    = os.ReadDir
	remove     = os.Remove
	rename     = os.Rename
	createTemp = os.CreateTemp
	mkdirAll   = os.MkdirAll
	chtimes    = os.Chtimes
	chmod      = os.Chmod
	isNotExist = func(err error) bool { return errors.Is(err, os.ErrNotExist) }
)

var exists = func(path string) bool {
	_, err := stat(path)
	return err == nil
}

var IsDir = func(path string) bool {
	fi, err := stat(path)
	return err == nil && fi.IsDir()
}

// readMapped reads a whole file through a read-only memory map.
func readMapped(path string) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf, nil
}

// getters and setters for test override
func GetReadFile() func(string) ([]byte, error)  { return readFile }
func SetReadFile(f func(string) ([]byte, error)) { readFile = f }
func GetRename() func(string, string) error      { return rename }
func SetRename(f func(string, string) error)     { rename = f }
