package show_test

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/command/commandtest"
	"github.com/keshon/ghist/internal/command/show"
	"github.com/keshon/ghist/internal/history/historytest"
	"github.com/keshon/ghist/internal/history/include"
	"github.com/keshon/ghist/internal/history/restore"
)

type snap = historytest.Snap

func TestShow(t *testing.T) {
	h := commandtest.New(t, &show.Command{})
	h.WriteFile(include.FileName, "*.txt\n")
	dir := h.Track("notes.txt",
		snap{ID: "n1", At: 1_000, Content: "first draft"},
		snap{ID: "n2", At: 9_000, Content: "second draft"},
	)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"both sides", []string{"show", path.Join(dir, "n2")}, []string{"notes.txt", "first draft", "second draft", path.Join(dir, "n1")}},
		{"first version", []string{"preview", path.Join(dir, "n1")}, []string{restore.NoPreviousVersion, "first draft"}},
		{"after only", []string{"show", "--after", path.Join(dir, "n1")}, []string{"first draft"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.Reset()
			require.Equal(t, 0, h.Run(tt.args...), h.Stderr.String())
			for _, s := range tt.want {
				assert.Contains(t, h.Stdout.String(), s)
			}
		})
	}

	t.Run("before only is raw", func(t *testing.T) {
		h.Reset()
		require.Equal(t, 0, h.Run("show", "--before", path.Join(dir, "n2")))
		assert.Equal(t, "first draft", h.Stdout.String())
	})
}

func TestShow_Errors(t *testing.T) {
	h := commandtest.New(t, &show.Command{})
	h.WriteFile(include.FileName, "*.txt\n")
	h.Track("notes.txt", snap{ID: "n1", At: 1_000, Content: "x"})

	assert.Equal(t, 1, h.Run("show"))
	assert.Equal(t, 1, h.Run("show", "nope/n1"))
	assert.Contains(t, h.Stderr.String(), "unknown history entry")
	assert.Equal(t, 1, h.Run("show", "--before", "--after", "a/b"))
}
