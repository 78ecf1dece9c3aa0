package restore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Resolution is the user's answer to unsaved modifications.
type Resolution int

const (
	Abort Resolution = iota
	SaveAndContinue
	DiscardAndContinue
)

func (r Resolution) String() string {
	switch r {
	case SaveAndContinue:
		return "save"
	case DiscardAndContinue:
		return "discard"
	default:
		return "abort"
	}
}

// Prompter asks the user before files are overwritten.
type Prompter interface {
	// Confirm shows the plan and reports whether to proceed.
	Confirm(ctx context.Context, plan *Plan) (bool, error)
	// ResolveUnsaved decides what happens to unsaved modifications of files.
	ResolveUnsaved(ctx context.Context, files []string, plan *Plan) (Resolution, error)
}

// ErrInvalidSelection is returned for an answer outside the offered options.
var ErrInvalidSelection = errors.New("invalid selection")

// InteractivePrompter asks on a terminal.
type InteractivePrompter struct {
	reader *bufio.Reader
	writer io.Writer
	root   string
}

// NewInteractivePrompter prompts on stdin/stdout, showing paths relative to
// root.
func NewInteractivePrompter(root string) *InteractivePrompter {
	return NewInteractivePrompterWithIO(os.Stdin, os.Stdout, root)
}

// NewInteractivePrompterWithIO prompts on the given streams.
func NewInteractivePrompterWithIO(r io.Reader, w io.Writer, root string) *InteractivePrompter {
	return &InteractivePrompter{reader: bufio.NewReader(r), writer: w, root: root}
}

func (p *InteractivePrompter) Confirm(ctx context.Context, plan *Plan) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprint(p.writer, describe(plan, p.root))
	fmt.Fprint(p.writer, "\nProceed with restore? [y/N]: ")

	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *InteractivePrompter) ResolveUnsaved(ctx context.Context, files []string, plan *Plan) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Abort, err
	}
	if len(files) == 1 {
		fmt.Fprintf(p.writer, "File %s has unsaved changes.\n", filepath.Base(files[0]))
	} else {
		fmt.Fprintf(p.writer, "%d files have unsaved changes.\n", len(files))
	}
	scope := "selected files"
	if plan.Scope == ScopeWorkspace {
		scope = "ALL workspace files"
	}
	fmt.Fprintf(p.writer, "This will restore %s to their state at %s\n", scope, plan.At.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(p.writer, "  1. Save and Continue (keep a .bak copy of the edits)")
	fmt.Fprintln(p.writer, "  2. Discard Changes")
	fmt.Fprintln(p.writer, "  3. Abort")
	fmt.Fprint(p.writer, "Choice [1-3]: ")

	line, err := p.readLine()
	if err != nil {
		return Abort, err
	}
	if line == "" {
		return Abort, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > 3 {
		return Abort, fmt.Errorf("%w: %q", ErrInvalidSelection, line)
	}
	return [...]Resolution{SaveAndContinue, DiscardAndContinue, Abort}[n-1], nil
}

// readLine returns the trimmed next line; EOF reads as an empty answer.
func (p *InteractivePrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// describe renders the plan the way the confirmation shows it, keeping
// group files apart from incidental ones.
func describe(plan *Plan, root string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "These files are going to be restored to %s changes:\n", plan.Mode)
	if files := plan.GroupFiles(); len(files) > 0 {
		b.WriteString("\n")
		for _, f := range files {
			fmt.Fprintf(&b, "  %s\n", relative(root, f))
		}
	}
	if files := plan.OtherFiles(); len(files) > 0 {
		fmt.Fprintf(&b, "\nThe following files have changes registered after %s and will be restored to their state before:\n\n",
			plan.At.Format("2006-01-02 15:04:05"))
		for _, f := range files {
			fmt.Fprintf(&b, "  %s\n", relative(root, f))
		}
	}
	return b.String()
}

func relative(root, path string) string {
	if root == "" {
		return path
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// NonInteractivePrompter answers without asking, for --yes and scripted use.
type NonInteractivePrompter struct {
	Proceed   bool
	OnUnsaved Resolution
}

// AutoApprove confirms every plan and saves a copy of unsaved changes
// before overwriting them.
func AutoApprove() *NonInteractivePrompter {
	return &NonInteractivePrompter{Proceed: true, OnUnsaved: SaveAndContinue}
}

func (p *NonInteractivePrompter) Confirm(ctx context.Context, _ *Plan) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.Proceed, nil
}

func (p *NonInteractivePrompter) ResolveUnsaved(ctx context.Context, _ []string, _ *Plan) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Abort, err
	}
	return p.OnUnsaved, nil
}

// MockPrompter is a test double recording what it was asked.
type MockPrompter struct {
	ConfirmFunc        func(ctx context.Context, plan *Plan) (bool, error)
	ResolveUnsavedFunc func(ctx context.Context, files []string, plan *Plan) (Resolution, error)

	Confirmed []*Plan
	Unsaved   [][]string
}

func (m *MockPrompter) Confirm(ctx context.Context, plan *Plan) (bool, error) {
	m.Confirmed = append(m.Confirmed, plan)
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, plan)
	}
	return true, nil
}

func (m *MockPrompter) ResolveUnsaved(ctx context.Context, files []string, plan *Plan) (Resolution, error) {
	m.Unsaved = append(m.Unsaved, files)
	if m.ResolveUnsavedFunc != nil {
		return m.ResolveUnsavedFunc(ctx, files, plan)
	}
	return Abort, nil
}
