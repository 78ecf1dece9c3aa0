package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemoryFS is a pure in-memory filesystem for tests or lightweight storage.
// Every write stamps the file with the current time of Clock.
type MemoryFS struct {
	mu    sync.Mutex
	files map[string][]byte
	mtime map[string]time.Time
	mode  map[string]os.FileMode
	dirs  map[string]struct{}
	tmpN  int

	// Clock returns the modification time for writes. Defaults to time.Now.
	Clock func() time.Time
}

func NewMemoryFS() *MemoryFS {
	f := &MemoryFS{
		files: make(map[string][]byte),
		mtime: make(map[string]time.Time),
		mode:  make(map[string]os.FileMode),
		dirs:  make(map[string]struct{}),
		Clock: time.Now,
	}
	f.dirs["/"] = struct{}{}
	f.dirs["."] = struct{}{}
	return f
}

// normalize paths
func clean(p string) string {
	if p == "" {
		return "."
	}
	return filepath.ToSlash(filepath.Clean(p))
}

func (f *MemoryFS) ensureDirExists(p string) error {
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return fs.ErrNotExist
	}
	return nil
}

// FS Interface Implementation

func (f *MemoryFS) Open(p string) (io.ReadSeekCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[clean(p)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &memReadSeekCloser{Reader: bytes.NewReader(data)}, nil
}

type memReadSeekCloser struct {
	*bytes.Reader
}

func (m *memReadSeekCloser) Close() error { return nil }

func (f *MemoryFS) ReadFile(p string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[clean(p)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (f *MemoryFS) WriteFile(p string, data []byte, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	dir := path.Dir(p)
	if err := f.ensureDirExists(dir); err != nil {
		return fmt.Errorf("write: dir %q does not exist", dir)
	}
	f.files[p] = append([]byte(nil), data...)
	f.mtime[p] = f.Clock()
	f.mode[p] = perm.Perm()
	return nil
}

func (f *MemoryFS) MkdirAll(p string, perm os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	cur := ""
	if strings.HasPrefix(p, "/") {
		cur = "/"
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." {
			continue
		}
		cur = path.Join(cur, seg)
		if _, ok := f.files[cur]; ok {
			return fmt.Errorf("mkdir %q: not a directory", cur)
		}
		f.dirs[cur] = struct{}{}
	}
	return nil
}

func (f *MemoryFS) Remove(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	if _, ok := f.files[p]; ok {
		delete(f.files, p)
		delete(f.mtime, p)
		delete(f.mode, p)
		return nil
	}
	if _, ok := f.dirs[p]; ok {
		delete(f.dirs, p)
		return nil
	}
	return fs.ErrNotExist
}

func (f *MemoryFS) Rename(oldp, newp string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	oldp, newp = clean(oldp), clean(newp)

	// file rename
	if data, ok := f.files[oldp]; ok {
		if f.ensureDirExists(path.Dir(newp)) != nil {
			return fs.ErrNotExist
		}
		delete(f.files, oldp)
		f.files[newp] = data
		f.mtime[newp] = f.mtime[oldp]
		f.mode[newp] = f.mode[oldp]
		delete(f.mtime, oldp)
		delete(f.mode, oldp)
		return nil
	}

	// dir rename
	if _, ok := f.dirs[oldp]; ok {
		delete(f.dirs, oldp)
		f.dirs[newp] = struct{}{}
		return nil
	}

	return fs.ErrNotExist
}

func (f *MemoryFS) Stat(p string) (os.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	if data, ok := f.files[p]; ok {
		return &fakeInfo{name: path.Base(p), size: int64(len(data)), mtime: f.mtime[p], mode: f.mode[p]}, nil
	}
	if _, ok := f.dirs[p]; ok {
		return &fakeInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, fs.ErrNotExist
}

// ReadDir lists the direct children of p sorted by name, like os.ReadDir.
func (f *MemoryFS) ReadDir(p string) ([]os.DirEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	if _, ok := f.dirs[p]; !ok {
		return nil, fs.ErrNotExist
	}

	prefix := p
	if prefix == "." {
		prefix = ""
	} else if prefix != "/" {
		prefix += "/"
	}

	seen := map[string]bool{}
	var out []os.DirEntry

	// dirs first
	for dp := range f.dirs {
		if dp == p || !strings.HasPrefix(dp, prefix) {
			continue
		}
		name := strings.Split(strings.TrimPrefix(dp, prefix), "/")[0]
		if name != "" && name != "." && !seen[name] {
			seen[name] = true
			out = append(out, fakeDirEntry{name: name, isDir: true})
		}
	}

	// then files
	for fp := range f.files {
		if !strings.HasPrefix(fp, prefix) {
			continue
		}
		rest := strings.TrimPrefix(fp, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		if rest != "" && !seen[rest] {
			seen[rest] = true
			out = append(out, fakeDirEntry{name: rest, mtime: f.mtime[fp], size: int64(len(f.files[fp])), mode: f.mode[fp]})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (f *MemoryFS) CreateTempFile(dir, pattern string) (io.WriteCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureDirExists(clean(dir)); err != nil {
		return nil, "", err
	}

	f.tmpN++
	name := strings.Replace(pattern, "*", strconv.Itoa(f.tmpN), 1)
	if name == pattern {
		name = pattern + strconv.Itoa(f.tmpN)
	}
	tmpName := path.Join(clean(dir), name)
	buf := &bytes.Buffer{}

	wc := &memWriteCloser{
		buf: buf,
		onClose: func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.files[clean(tmpName)] = buf.Bytes()
			f.mtime[clean(tmpName)] = f.Clock()
			f.mode[clean(tmpName)] = 0o600
		},
	}
	return wc, tmpName, nil
}

type memWriteCloser struct {
	buf     *bytes.Buffer
	onClose func()
}

func (m *memWriteCloser) Write(p []byte) (int, error) { return m.buf.Write(p) }
func (m *memWriteCloser) Close() error {
	if m.onClose != nil {
		m.onClose()
		m.onClose = nil
	}
	return nil
}

func (f *MemoryFS) Chtimes(p string, atime, mtime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	if _, ok := f.files[p]; !ok {
		return fs.ErrNotExist
	}
	f.mtime[p] = mtime
	return nil
}

// Chmod records mode for a file. Stat reports it back.
func (f *MemoryFS) Chmod(p string, mode os.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	if _, ok := f.files[p]; !ok {
		return fs.ErrNotExist
	}
	f.mode[p] = mode.Perm()
	return nil
}

func (f *MemoryFS) IsNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
func (f *MemoryFS) IsDir(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.dirs[clean(p)]
	return ok
}
func (f *MemoryFS) Exists(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = clean(p)
	_, f1 := f.files[p]
	_, d1 := f.dirs[p]
	return f1 || d1
}

// Helpers

type fakeInfo struct {
	name  string
	size  int64
	dir   bool
	mtime time.Time
	mode  fs.FileMode
}

func (f *fakeInfo) Name() string       { return f.name }
func (f *fakeInfo) Size() int64        { return f.size }
func (f *fakeInfo) Mode() fs.FileMode {
	switch {
	case f.dir:
		return fs.ModeDir | 0o755
	case f.mode == 0:
		return 0o644
	}
	return f.mode
}
func (f *fakeInfo) ModTime() time.Time { return f.mtime }
func (f *fakeInfo) IsDir() bool        { return f.dir }
func (f *fakeInfo) Sys() interface{}   { return nil }

type fakeDirEntry struct {
	name  string
	isDir bool
	size  int64
	mtime time.Time
	mode  fs.FileMode
}

func (d fakeDirEntry) Name() string { return d.name }
func (d fakeDirEntry) IsDir() bool  { return d.isDir }
func (d fakeDirEntry) Type() fs.FileMode {
	if d.isDir {
		return fs.ModeDir
	}
	return 0
}
func (d fakeDirEntry) Info() (os.FileInfo, error) {
	return &fakeInfo{name: d.name, dir: d.isDir, size: d.size, mtime: d.mtime, mode: d.mode}, nil
}
