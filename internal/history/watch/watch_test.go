package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/history/entry"
)

type fakeRegistrar struct {
	mu      sync.Mutex
	created []string
	stale   int
	collide string
}

func (f *fakeRegistrar) RegisterCreated(path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == f.collide {
		return "dir", entry.ErrHashCollision
	}
	f.created = append(f.created, path)
	return "dir", nil
}

func (f *fakeRegistrar) MarkStale() {
	f.mu.Lock()
	f.stale++
	f.mu.Unlock()
}

func (f *fakeRegistrar) snapshot() ([]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.created...), f.stale
}

type suffixFilter string

func (s suffixFilter) ShouldInclude(p, _ string) bool { return strings.HasSuffix(p, string(s)) }

type batches struct {
	mu  sync.Mutex
	all []Batch
}

func (b *batches) add(x Batch) {
	b.mu.Lock()
	b.all = append(b.all, x)
	b.mu.Unlock()
}

func (b *batches) get() []Batch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Batch(nil), b.all...)
}

func startWatcher(t *testing.T, root string, reg Registrar, opts *Options) {
	t.Helper()
	w, err := New(root, reg, suffixFilter(".go"), opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcher_RegistersIncludedCreatedFiles(t *testing.T) {
	root := t.TempDir()
	reg := &fakeRegistrar{}
	got := &batches{}
	startWatcher(t, root, reg, &Options{Debounce: 20 * time.Millisecond, OnBatch: got.add})

	write(t, filepath.Join(root, "main.go"), "package main")
	write(t, filepath.Join(root, "notes.txt"), "skip me")

	require.Eventually(t, func() bool { return len(got.get()) > 0 }, 2*time.Second, 10*time.Millisecond)

	created, _ := reg.snapshot()
	assert.Equal(t, []string{filepath.Join(root, "main.go")}, created)
	assert.Equal(t, []string{filepath.Join(root, "main.go")}, got.get()[0].Registered)
}

func TestWatcher_NewDirectoryContents(t *testing.T) {
	root := t.TempDir()
	reg := &fakeRegistrar{}
	startWatcher(t, root, reg, &Options{Debounce: 20 * time.Millisecond})

	write(t, filepath.Join(root, "pkg", "sub", "a.go"), "package sub")

	assert.Eventually(t, func() bool {
		created, _ := reg.snapshot()
		for _, c := range created {
			if c == filepath.Join(root, "pkg", "sub", "a.go") {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	reg := &fakeRegistrar{}
	startWatcher(t, root, reg, &Options{Debounce: 20 * time.Millisecond})

	write(t, filepath.Join(root, "node_modules", "x.go"), "")
	write(t, filepath.Join(root, "y.go"), "")

	assert.Eventually(t, func() bool {
		created, _ := reg.snapshot()
		return len(created) == 1
	}, 2*time.Second, 10*time.Millisecond)
	created, _ := reg.snapshot()
	assert.Equal(t, []string{filepath.Join(root, "y.go")}, created)
}

func TestWatcher_IncludeFileMarksStale(t *testing.T) {
	root := t.TempDir()
	includeFile := filepath.Join(root, ".groupedtimelineinclude")
	write(t, includeFile, "*.go\n")

	reg := &fakeRegistrar{}
	got := &batches{}
	startWatcher(t, root, reg, &Options{Debounce: 20 * time.Millisecond, IncludeFile: includeFile, OnBatch: got.add})

	write(t, includeFile, "*.ts\n")

	require.Eventually(t, func() bool { return len(got.get()) > 0 }, 2*time.Second, 10*time.Millisecond)

	created, stale := reg.snapshot()
	assert.Empty(t, created)
	assert.GreaterOrEqual(t, stale, 1)
	assert.True(t, got.get()[0].IncludeChanged)
}

func TestWatcher_ReportsCollisions(t *testing.T) {
	root := t.TempDir()
	reg := &fakeRegistrar{collide: filepath.Join(root, "BB.go")}
	got := &batches{}
	startWatcher(t, root, reg, &Options{Debounce: 20 * time.Millisecond, OnBatch: got.add})

	write(t, filepath.Join(root, "BB.go"), "")

	assert.Eventually(t, func() bool {
		for _, b := range got.get() {
			if len(b.Collisions) == 1 {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_CloseStopsRun(t *testing.T) {
	w, err := New(t.TempDir(), &fakeRegistrar{}, suffixFilter(".go"), nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()
	require.NoError(t, w.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestWatcher_CancelStopsRun(t *testing.T) {
	w, err := New(t.TempDir(), &fakeRegistrar{}, suffixFilter(".go"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
