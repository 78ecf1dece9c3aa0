// Package entry holds the reconstructed history model shared by the reader,
// the grouper and the restore engine.
package entry

import (
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"
)

// Source records how an entry was discovered.
type Source int

const (
	// Declared entries are listed in the directory's index record.
	Declared Source = iota
	// Synthesized entries exist on disk but are missing from the index record.
	Synthesized
	// Reattached entries come from a directory without a usable index record,
	// matched to a newly created file by its predicted directory id.
	Reattached
)

func (s Source) String() string {
	switch s {
	case Declared:
		return "declared"
	case Synthesized:
		return "synthesized"
	case Reattached:
		return "reattached"
	default:
		return "unknown"
	}
}

// Entry is one timestamped version of one tracked file.
type Entry struct {
	Timestamp       time.Time
	FilePath        string // local path of the tracked file
	HistoryFilePath string // location of the snapshot blob
	Dir             string // owning snapshot directory id
	ID              string // blob id inside Dir
	Source          Source

	once    sync.Once
	content []byte
	err     error
}

// Ref is the stable handle of an entry: "<dir>/<id>".
func (e *Entry) Ref() string {
	return path.Join(e.Dir, e.ID)
}

// Millis returns the timestamp in epoch milliseconds.
func (e *Entry) Millis() int64 {
	return e.Timestamp.UnixMilli()
}

// Content returns the snapshot content, calling load at most once.
// The cached value is never invalidated.
func (e *Entry) Content(load func(path string) ([]byte, error)) ([]byte, error) {
	e.once.Do(func() {
		e.content, e.err = load(e.HistoryFilePath)
	})
	return e.content, e.err
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s@%d (%s)", e.FilePath, e.Millis(), e.Ref())
}

// Less orders entries oldest first, breaking timestamp ties by blob path.
func Less(a, b *Entry) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.HistoryFilePath < b.HistoryFilePath
}

// Newer orders entries newest first.
func Newer(a, b *Entry) bool {
	return Less(b, a)
}

// Group is a time-clustered set of entries spanning possibly many files.
// It is immutable once built.
type Group struct {
	Timestamp time.Time // newest member's timestamp
	Files     []string  // distinct file paths, first-seen order
	Changes   []*Entry  // members, newest first
	Summary   string
}

// Key is the stable handle of a group: the newest member's epoch milliseconds.
func (g *Group) Key() string {
	return strconv.FormatInt(g.Timestamp.UnixMilli(), 10)
}

// HasFile reports whether path is one of the group's files.
func (g *Group) HasFile(path string) bool {
	for _, f := range g.Files {
		if f == path {
			return true
		}
	}
	return false
}

// Members returns the group's entries for one file, newest first.
func (g *Group) Members(path string) []*Entry {
	var out []*Entry
	for _, e := range g.Changes {
		if e.FilePath == path {
			out = append(out, e)
		}
	}
	return out
}
