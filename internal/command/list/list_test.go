package list_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/command/commandtest"
	"github.com/keshon/ghist/internal/command/list"
	"github.com/keshon/ghist/internal/history/historytest"
	"github.com/keshon/ghist/internal/history/include"
)

type snap = historytest.Snap

func setup(t *testing.T) *commandtest.Harness {
	t.Helper()
	h := commandtest.New(t, &list.Command{})
	h.WriteFile(include.FileName, "*.go\n")
	h.Track("a.go", snap{ID: "a1", At: 1_000, Content: "a1"}, snap{ID: "a2", At: 60_000, Content: "a2"})
	h.Track("b.go", snap{ID: "b1", At: 58_000, Content: "b1"})
	h.Track("pkg/c.go", snap{ID: "c1", At: 61_000, Content: "c1"})
	return h
}

func TestList_Default(t *testing.T) {
	h := setup(t)
	require.Equal(t, 0, h.Run("list"), h.Stderr.String())

	out := h.Stdout.String()
	assert.Contains(t, out, "61000")
	assert.Contains(t, out, "Changed 3 files")
	assert.Contains(t, out, "Changed 1 file")
	assert.Contains(t, out, "pkg/c.go")
	assert.Contains(t, out, "Total changes: 2")
	assert.Less(t, strings.Index(out, "61000"), strings.Index(out, "Changed 1 file "))
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{"min files", []string{"ls", "--min-files", "2"}, []string{"Changed 3 files", "Total changes: 1"}, []string{"Changed 1 file "}},
		{"exact files", []string{"ls", "--files", "1"}, []string{"Changed 1 file "}, []string{"Changed 3 files"}},
		{"oldest", []string{"ls", "--sort", "oldest", "-n", "1"}, []string{"Changed 1 file", "Total changes: 1"}, []string{"Changed 3 files"}},
		{"search", []string{"ls", "--search", "C.GO"}, []string{`Search: "c.go"`, "Changed 3 files"}, []string{"Changed 1 file "}},
		{"tight window", []string{"ls", "--window", "1"}, []string{"Total changes: 3"}, nil},
		{"expand", []string{"ls", "-e"}, []string{"a2", "c1", "b1"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t)
			require.Equal(t, 0, h.Run(tt.args...), h.Stderr.String())
			for _, s := range tt.contains {
				assert.Contains(t, h.Stdout.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, h.Stdout.String(), s)
			}
		})
	}
}

func TestList_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"zero window", []string{"list", "--window", "0"}, 1},
		{"bad sort", []string{"list", "--sort", "sideways"}, 1},
		{"both count filters", []string{"list", "--files", "1", "--min-files", "2"}, 1},
		{"zero files", []string{"list", "--files", "0"}, 1},
		{"unknown flag", []string{"list", "--serch", "x"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t)
			assert.Equal(t, tt.code, h.Run(tt.args...))
			assert.Contains(t, h.Stderr.String(), "Error")
		})
	}
}

func TestList_Limit(t *testing.T) {
	h := setup(t)
	require.Equal(t, 0, h.Run("list", "-n", "0"))
	assert.Contains(t, h.Stdout.String(), "Total changes: 2")

	h.Reset()
	assert.Equal(t, 1, h.Run("list", "--limit", "-1"))
	assert.Contains(t, h.Stderr.String(), "--limit must not be negative, got -1")
}

func TestList_VerboseStoreSummary(t *testing.T) {
	h := setup(t)
	h.Track("notes.md", snap{ID: "n1", At: 2_000, Content: "n"})
	h.WriteIndex("corrupt", `{"version": 1,`)

	require.Equal(t, 0, h.Run("list"))
	assert.NotContains(t, h.Stdout.String(), "unused snapshot directories")

	h.Reset()
	require.Equal(t, 0, h.Run("list", "--verbose"), h.Stderr.String())
	assert.Contains(t, h.Stdout.String(), "2 unused snapshot directories")
	assert.Contains(t, h.Stdout.String(), "0 reattached entries")
}

func TestList_UnknownFlagSuggestion(t *testing.T) {
	h := setup(t)
	h.Run("list", "--serch", "x")
	assert.Contains(t, h.Stderr.String(), "did you mean --search?")
}

func TestList_DefaultIncludeTracksNothing(t *testing.T) {
	h := commandtest.New(t, &list.Command{})
	h.Track("a.go", snap{ID: "a1", At: 1_000, Content: "a1"})

	require.Equal(t, 0, h.Run("list"))
	assert.Contains(t, h.Stdout.String(), "No changes found")
	assert.Equal(t, include.DefaultContent, h.ReadFile(include.FileName))
}
