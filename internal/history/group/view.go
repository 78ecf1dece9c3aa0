package group

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/keshon/ghist/internal/history/entry"
)

// SortOrder orders the grouped view.
type SortOrder string

const (
	NewestFirst SortOrder = "newest"
	OldestFirst SortOrder = "oldest"
	MostFiles   SortOrder = "most-files"
	FewestFiles SortOrder = "fewest-files"
)

// ParseSortOrder accepts the order names used on the command line.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return NewestFirst, nil
	case NewestFirst, OldestFirst, MostFiles, FewestFiles:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want newest, oldest, most-files or fewest-files)", s)
	}
}

// FilterMode selects how FileCountFilter compares.
type FilterMode int

const (
	NoFilter FilterMode = iota
	MinFiles
	ExactFiles
)

// FileCountFilter keeps groups by number of distinct files.
type FileCountFilter struct {
	Mode FilterMode
	N    int
}

func (f FileCountFilter) keep(g *entry.Group) bool {
	switch f.Mode {
	case MinFiles:
		return len(g.Files) >= f.N
	case ExactFiles:
		return len(g.Files) == f.N
	default:
		return true
	}
}

// View is the state behind the grouped listing: clustering window, file
// count filter, sort order and search query.
type View struct {
	window time.Duration
	Filter FileCountFilter
	Order  SortOrder
	Search string
}

// NewView returns a view with the default window, newest first.
func NewView() *View {
	return &View{window: DefaultWindow, Order: NewestFirst}
}

// Window is the current clustering window.
func (v *View) Window() time.Duration { return v.window }

// SetTimeWindowSeconds changes the clustering window.
func (v *View) SetTimeWindowSeconds(n int) error {
	if n <= 0 {
		return fmt.Errorf("time window must be positive, got %d", n)
	}
	v.window = time.Duration(n) * time.Second
	return nil
}

// SetFileCountFilter sets the filter; n must be positive unless mode is
// NoFilter.
func (v *View) SetFileCountFilter(mode FilterMode, n int) error {
	if mode != NoFilter && n <= 0 {
		return fmt.Errorf("file count must be positive, got %d", n)
	}
	v.Filter = FileCountFilter{Mode: mode, N: n}
	return nil
}

// SetSortOrder changes the ordering.
func (v *View) SetSortOrder(o SortOrder) {
	v.Order = o
}

// SetSearch sets a case-insensitive query matched against member file
// base names. An empty query disables the search.
func (v *View) SetSearch(q string) {
	v.Search = strings.ToLower(strings.TrimSpace(q))
}

// Apply groups entries and then filters and sorts the groups.
func (v *View) Apply(entries []*entry.Entry) []*entry.Group {
	groups := Group(entries, v.window)

	out := groups[:0]
	for _, g := range groups {
		if v.matchesSearch(g) && v.Filter.keep(g) {
			out = append(out, g)
		}
	}

	switch v.Order {
	case OldestFirst:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	case MostFiles:
		sort.SliceStable(out, func(i, j int) bool { return len(out[i].Files) > len(out[j].Files) })
	case FewestFiles:
		sort.SliceStable(out, func(i, j int) bool { return len(out[i].Files) < len(out[j].Files) })
	}
	return out
}

func (v *View) matchesSearch(g *entry.Group) bool {
	if v.Search == "" {
		return true
	}
	for _, f := range g.Files {
		if strings.Contains(strings.ToLower(filepath.Base(f)), v.Search) {
			return true
		}
	}
	return false
}
