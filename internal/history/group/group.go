// Package group clusters history entries into time-windowed change sets.
package group

import (
	"fmt"
	"sort"
	"time"

	"github.com/keshon/ghist/internal/history/entry"
)

// DefaultWindow is the default clustering window.
const DefaultWindow = 5 * time.Second

// Group clusters entries newest first. An entry joins the open cluster while
// its distance to the cluster's newest member (the anchor) is at most
// window, so no cluster spans more than window.
//
// The input slice is not modified.
func Group(entries []*entry.Entry, window time.Duration) []*entry.Group {
	sorted := append([]*entry.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return entry.Newer(sorted[i], sorted[j]) })

	var groups []*entry.Group
	var open []*entry.Entry
	for _, e := range sorted {
		if len(open) == 0 {
			open = append(open, e)
			continue
		}
		if abs(e.Timestamp.Sub(open[0].Timestamp)) <= window {
			open = append(open, e)
			continue
		}
		groups = append(groups, newGroup(open))
		open = []*entry.Entry{e}
	}
	if len(open) > 0 {
		groups = append(groups, newGroup(open))
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Timestamp.After(groups[j].Timestamp) })
	return groups
}

func newGroup(members []*entry.Entry) *entry.Group {
	seen := make(map[string]struct{}, len(members))
	var files []string
	for _, e := range members {
		if _, ok := seen[e.FilePath]; ok {
			continue
		}
		seen[e.FilePath] = struct{}{}
		files = append(files, e.FilePath)
	}
	return &entry.Group{
		Timestamp: members[0].Timestamp,
		Files:     files,
		Changes:   members,
		Summary:   Summary(len(files)),
	}
}

// Summary renders a file count.
func Summary(n int) string {
	if n == 1 {
		return "Changed 1 file"
	}
	return fmt.Sprintf("Changed %d files", n)
}

// Find returns the group whose key is key.
func Find(groups []*entry.Group, key string) (*entry.Group, error) {
	for _, g := range groups {
		if g.Key() == key {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", entry.ErrUnknownGroup, key)
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
