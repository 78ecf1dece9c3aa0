package restore

import (
	"time"

	"github.com/keshon/ghist/internal/history/entry"
)

// Mode selects which side of a change set to restore.
type Mode int

const (
	Before Mode = iota
	After
)

func (m Mode) String() string {
	if m == After {
		return "after"
	}
	return "before"
}

// Scope is what a plan covers.
type Scope int

const (
	ScopeEntry Scope = iota
	ScopeGroup
	ScopeWorkspace
)

// Mutation replaces one file's content. A nil Target clears the file.
type Mutation struct {
	Path    string
	Target  *entry.Entry
	InGroup bool
}

// Clears reports whether the mutation empties the file.
func (m Mutation) Clears() bool { return m.Target == nil }

// Plan is an ordered list of mutations, at most one per file: group files
// first in the group's order, then other files by path.
type Plan struct {
	Scope     Scope
	Mode      Mode
	At        time.Time // reference point: the entry or group timestamp
	Mutations []Mutation
}

// Paths lists every file the plan writes, in order.
func (p *Plan) Paths() []string {
	out := make([]string, len(p.Mutations))
	for i, m := range p.Mutations {
		out[i] = m.Path
	}
	return out
}

// GroupFiles lists the files selected by the group.
func (p *Plan) GroupFiles() []string {
	var out []string
	for _, m := range p.Mutations {
		if m.InGroup {
			out = append(out, m.Path)
		}
	}
	return out
}

// OtherFiles lists files outside the group that are rolled back because
// they changed after the reference point.
func (p *Plan) OtherFiles() []string {
	var out []string
	for _, m := range p.Mutations {
		if !m.InGroup {
			out = append(out, m.Path)
		}
	}
	return out
}

// MultiFile reports whether the plan needs explicit confirmation.
func (p *Plan) MultiFile() bool {
	return p.Scope != ScopeEntry
}

// Describe renders the plan with paths shortened against root.
func (p *Plan) Describe(root string) string {
	return describe(p, root)
}
