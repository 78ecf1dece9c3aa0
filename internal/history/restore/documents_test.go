package restore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/history/historytest"
	"github.com/keshon/ghist/internal/history/index"
)

func TestDriftDocuments_Unsaved(t *testing.T) {
	fx := historytest.New(t)
	fx.Track("clean.go", Snap{ID: "c1", At: 1_000, Content: "old"}, Snap{ID: "c2", At: 2_000, Content: "same"})
	fx.Track("drift.go", Snap{ID: "d1", At: 1_000, Content: "saved"})
	fx.Track("gone.go", Snap{ID: "g1", At: 1_000, Content: "x"})
	fx.WriteFile("clean.go", "same")
	fx.WriteFile("drift.go", "saved plus edits")
	fx.WriteFile("untracked.go", "whatever")

	reader := index.NewReader(fx.Store, historytest.AllFiles{}, nil)
	ctx := context.Background()
	entries, err := reader.Scan(ctx, historytest.Workspace)
	require.NoError(t, err)

	docs := NewDriftDocuments(fx.FS, entries, reader.LoadContent, nil)
	paths := []string{fx.Path("clean.go"), fx.Path("drift.go"), fx.Path("gone.go"), fx.Path("untracked.go")}

	dirty, err := docs.Unsaved(ctx, paths)
	require.NoError(t, err)
	assert.Equal(t, []string{fx.Path("drift.go")}, dirty)

	require.NoError(t, docs.Discard(ctx, dirty))
	assert.Equal(t, "saved plus edits", fx.ReadFile("drift.go"))
}

func TestDriftDocuments_SaveWritesBackup(t *testing.T) {
	fx := historytest.New(t)
	fx.Track("drift.go", Snap{ID: "d1", At: 1_000, Content: "saved"})
	fx.WriteFile("drift.go", "saved plus edits")

	reader := index.NewReader(fx.Store, historytest.AllFiles{}, nil)
	ctx := context.Background()
	entries, err := reader.Scan(ctx, historytest.Workspace)
	require.NoError(t, err)

	docs := NewDriftDocuments(fx.FS, entries, reader.LoadContent, nil)
	docs.Clock = func() time.Time { return time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC) }

	first, err := docs.Save(ctx, []string{fx.Path("drift.go")})
	require.NoError(t, err)
	second, err := docs.Save(ctx, []string{fx.Path("drift.go")})
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, fx.Path("drift.go.ghist-20261016-093000.bak"), first[0].Copy)
	assert.Equal(t, fx.Path("drift.go.ghist-20261016-093000-2.bak"), second[0].Copy)
	assert.Equal(t, "saved plus edits", fx.ReadFile("drift.go.ghist-20261016-093000.bak"))
	assert.Equal(t, "saved plus edits", fx.ReadFile("drift.go"))

	_, err = docs.Save(ctx, []string{fx.Path("missing.go")})
	assert.Error(t, err)
}

func TestMemoryDocuments(t *testing.T) {
	ctx := context.Background()
	docs := NewMemoryDocuments("/a", "/b")

	dirty, err := docs.Unsaved(ctx, []string{"/a", "/c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, dirty)

	saved, err := docs.Save(ctx, []string{"/a"})
	require.NoError(t, err)
	assert.Equal(t, []Backup{{Path: "/a", Copy: "/a.saved"}}, saved)
	require.NoError(t, docs.Discard(ctx, []string{"/b"}))

	dirty, err = docs.Unsaved(ctx, []string{"/a", "/b"})
	require.NoError(t, err)
	assert.Empty(t, dirty)
	assert.Equal(t, []string{"/a"}, docs.Saved)
	assert.Equal(t, []string{"/b"}, docs.Discarded)
}
