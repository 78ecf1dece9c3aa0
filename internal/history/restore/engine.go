// Package restore plans and applies point-in-time restores of workspace
// files from snapshot history.
package restore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/keshon/ghist/internal/fs"
	"github.com/keshon/ghist/internal/history/entry"
	"github.com/keshon/ghist/internal/history/index"
	"github.com/keshon/ghist/internal/progress"
	"github.com/keshon/ghist/internal/util"
)

// NoPreviousVersion is shown as the "before" side of a first version.
const NoPreviousVersion = "No previous version available"

// History is what the engine needs from the index reader.
type History interface {
	PreviousEntry(ctx context.Context, e *entry.Entry) (*entry.Entry, error)
	EntriesAfter(ctx context.Context, workspaceRoot string, t time.Time) ([]index.FileState, error)
	LoadContent(e *entry.Entry) ([]byte, error)
}

// Engine restores files. It keeps no state between calls.
type Engine struct {
	History   History
	FS        fs.FS
	Prompter  Prompter
	Documents Documents
	Workspace string
	Progress  *progress.Tracker
	Log       *slog.Logger
}

func (eng *Engine) log() *slog.Logger {
	if eng.Log == nil {
		return slog.Default()
	}
	return eng.Log
}

// RestoreEntry replaces e's file with e's content, creating it if needed.
func (eng *Engine) RestoreEntry(ctx context.Context, e *entry.Entry) (*Report, error) {
	plan := &Plan{Scope: ScopeEntry, Mode: After, At: e.Timestamp, Mutations: []Mutation{{Path: e.FilePath, Target: e, InGroup: true}}}
	return eng.Execute(ctx, plan)
}

// RestoreEntryToBefore replaces e's file with the version preceding e, or
// clears it when e is the first version.
func (eng *Engine) RestoreEntryToBefore(ctx context.Context, e *entry.Entry) (*Report, error) {
	prev, err := eng.History.PreviousEntry(ctx, e)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Scope: ScopeEntry, Mode: Before, At: e.Timestamp, Mutations: []Mutation{{Path: e.FilePath, Target: prev, InGroup: true}}}
	return eng.Execute(ctx, plan)
}

func (eng *Engine) RestoreGroupToBefore(ctx context.Context, g *entry.Group) (*Report, error) {
	return eng.restore(ctx, func() (*Plan, error) { return eng.PlanGroup(ctx, g, Before) })
}

func (eng *Engine) RestoreGroupToAfter(ctx context.Context, g *entry.Group) (*Report, error) {
	return eng.restore(ctx, func() (*Plan, error) { return eng.PlanGroup(ctx, g, After) })
}

func (eng *Engine) RestoreAllToBefore(ctx context.Context, g *entry.Group) (*Report, error) {
	return eng.restore(ctx, func() (*Plan, error) { return eng.PlanAll(ctx, g, Before) })
}

func (eng *Engine) RestoreAllToAfter(ctx context.Context, g *entry.Group) (*Report, error) {
	return eng.restore(ctx, func() (*Plan, error) { return eng.PlanAll(ctx, g, After) })
}

func (eng *Engine) restore(ctx context.Context, build func() (*Plan, error)) (*Report, error) {
	plan, err := build()
	if err != nil {
		return nil, err
	}
	return eng.Execute(ctx, plan)
}

// PlanGroup plans one mutation per file of g. Before: the version preceding
// the file's oldest member in g, or clear. After: the file's newest member.
func (eng *Engine) PlanGroup(ctx context.Context, g *entry.Group, mode Mode) (*Plan, error) {
	plan := &Plan{Scope: ScopeGroup, Mode: mode, At: g.Timestamp}
	for _, file := range g.Files {
		m, err := eng.groupMutation(ctx, g, file, mode)
		if err != nil {
			return nil, err
		}
		plan.Mutations = append(plan.Mutations, m)
	}
	return plan, nil
}

// PlanAll extends PlanGroup with every workspace file changed after g.
// Files outside g go back to their state at g's timestamp in both modes.
func (eng *Engine) PlanAll(ctx context.Context, g *entry.Group, mode Mode) (*Plan, error) {
	plan, err := eng.PlanGroup(ctx, g, mode)
	if err != nil {
		return nil, err
	}
	plan.Scope = ScopeWorkspace

	states, err := eng.History.EntriesAfter(ctx, eng.Workspace, g.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("files changed after %s: %w", g.Key(), err)
	}
	for _, st := range states {
		if g.HasFile(st.FilePath) {
			continue
		}
		plan.Mutations = append(plan.Mutations, Mutation{Path: st.FilePath, Target: st.Preceding})
	}
	return plan, nil
}

func (eng *Engine) groupMutation(ctx context.Context, g *entry.Group, file string, mode Mode) (Mutation, error) {
	members := g.Members(file)
	if mode == After {
		return Mutation{Path: file, Target: members[0], InGroup: true}, nil
	}
	oldest := members[len(members)-1]
	prev, err := eng.History.PreviousEntry(ctx, oldest)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{Path: file, Target: prev, InGroup: true}, nil
}

// Execute confirms (for multi-file plans), resolves unsaved modifications
// and applies the plan in order. A declined prompt returns entry.ErrAborted
// before anything is written.
func (eng *Engine) Execute(ctx context.Context, plan *Plan) (*Report, error) {
	if plan.MultiFile() && eng.Prompter != nil {
		ok, err := eng.Prompter.Confirm(ctx, plan)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: restore not confirmed", entry.ErrAborted)
		}
	}

	saved, err := eng.checkUnsaved(ctx, plan)
	if err != nil {
		return nil, err
	}

	rep, err := eng.apply(ctx, plan)
	rep.Saved = saved
	return rep, err
}

// checkUnsaved resolves unsaved files in the plan. A failed save aborts
// before anything is overwritten.
func (eng *Engine) checkUnsaved(ctx context.Context, plan *Plan) ([]Backup, error) {
	if eng.Documents == nil {
		return nil, nil
	}
	dirty, err := eng.Documents.Unsaved(ctx, plan.Paths())
	if err != nil {
		return nil, fmt.Errorf("check unsaved files: %w", err)
	}
	if len(dirty) == 0 {
		return nil, nil
	}

	res := Abort
	if eng.Prompter != nil {
		if res, err = eng.Prompter.ResolveUnsaved(ctx, dirty, plan); err != nil {
			return nil, err
		}
	}
	switch res {
	case SaveAndContinue:
		saved, err := eng.Documents.Save(ctx, dirty)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", entry.ErrAborted, err)
		}
		return saved, nil
	case DiscardAndContinue:
		return nil, eng.Documents.Discard(ctx, dirty)
	default:
		return nil, fmt.Errorf("%w: %d file(s) with unsaved changes", entry.ErrAborted, len(dirty))
	}
}

// apply writes every mutation in order. Failures are logged and collected;
// the rest still runs.
func (eng *Engine) apply(ctx context.Context, plan *Plan) (*Report, error) {
	log := eng.log()
	rep := &Report{}

	var bar *progress.Bar
	if eng.Progress != nil && len(plan.Mutations) > 1 {
		bar = eng.Progress.NewBar(len(plan.Mutations), "Restoring")
		defer bar.Finish()
	}

	for _, m := range plan.Mutations {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		changed, err := eng.write(m)
		switch {
		case err != nil:
			log.Error("restore failed", "file", m.Path, "error", err)
			rep.Failed = append(rep.Failed, Failure{Path: m.Path, Err: err})
		case changed:
			log.Debug("restored", "file", m.Path, "target", target(m))
			rep.Applied = append(rep.Applied, m.Path)
		default:
			rep.Unchanged = append(rep.Unchanged, m.Path)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return rep, rep.Err()
}

// write reports whether the file content changed.
func (eng *Engine) write(m Mutation) (bool, error) {
	var data []byte
	if m.Target != nil {
		var err error
		if data, err = eng.History.LoadContent(m.Target); err != nil {
			return false, err
		}
	}

	if current, err := eng.FS.ReadFile(m.Path); err == nil {
		if sameContent(current, data) {
			return false, nil
		}
	} else if !eng.FS.IsNotExist(err) {
		return false, err
	}

	if err := util.WriteFile(eng.FS, m.Path, data); err != nil {
		return false, err
	}
	return true, nil
}

func target(m Mutation) string {
	if m.Target == nil {
		return "clear"
	}
	return m.Target.Ref()
}

// Preview holds both sides of an entry's change.
type Preview struct {
	Entry    *entry.Entry
	Previous *entry.Entry // nil for a first version
	Before   []byte
	After    []byte
}

// Preview loads the content before and after e. Before is the previous
// version, or NoPreviousVersion.
func (eng *Engine) Preview(ctx context.Context, e *entry.Entry) (*Preview, error) {
	prev, err := eng.History.PreviousEntry(ctx, e)
	if err != nil {
		return nil, err
	}
	p := &Preview{Entry: e, Previous: prev, Before: []byte(NoPreviousVersion)}
	if prev != nil {
		if p.Before, err = eng.History.LoadContent(prev); err != nil {
			return nil, err
		}
	}
	if p.After, err = eng.History.LoadContent(e); err != nil {
		return nil, err
	}
	return p, nil
}
