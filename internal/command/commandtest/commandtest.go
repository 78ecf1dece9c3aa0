// Package commandtest runs commands against an in-memory history fixture.
package commandtest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/config"
	"github.com/keshon/ghist/internal/history"
	"github.com/keshon/ghist/internal/history/historytest"
	"github.com/keshon/ghist/internal/middleware"
)

// Harness wires commands to a historytest.Fixture.
type Harness struct {
	*historytest.Fixture
	Config *config.Config
	Stdin  io.Reader
	Stdout bytes.Buffer
	Stderr bytes.Buffer

	tree *command.CommandTree
}

// New registers cmds, each wrapped in the history middleware stack.
func New(t testing.TB, cmds ...command.Command) *Harness {
	t.Helper()
	h := &Harness{
		Fixture: historytest.New(t),
		Config:  config.Default(),
		Stdin:   strings.NewReader(""),
		tree:    command.NewTree(),
	}
	for _, c := range cmds {
		h.tree.Register(command.ApplyMiddlewares(c, middleware.Stack()...))
	}
	return h
}

// Register adds a command without middleware.
func (h *Harness) Register(c command.Command) {
	h.tree.Register(c)
}

// Run executes args and returns the exit code. Output accumulates in
// Stdout and Stderr.
func (h *Harness) Run(args ...string) int {
	return h.RunContext(context.Background(), args...)
}

// RunContext is Run with a caller-supplied context.
func (h *Harness) RunContext(ctx context.Context, args ...string) int {
	r := &command.Runner{
		Tree:   h.tree,
		Stdin:  h.Stdin,
		Stdout: &h.Stdout,
		Stderr: &h.Stderr,
		Logger: slog.New(slog.NewTextHandler(&h.Stderr, nil)),
		Config: h.Config,
		HistoryOptions: &history.Options{
			FS:        h.FS,
			Store:     h.Store,
			Workspace: historytest.Workspace,
		},
	}
	return r.Run(ctx, args)
}

// Reset clears captured output.
func (h *Harness) Reset() {
	h.Stdout.Reset()
	h.Stderr.Reset()
}
