// Package include decides which workspace files take part in the grouped
// history, from a gitignore-like list of globs where '!' lines exclude.
package include

import (
	"bufio"
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/keshon/ghist/internal/fs"
)

// Patterns is the parsed content of an include file.
type Patterns struct {
	Includes []string
	Excludes []string
}

// Parse splits include file content into include and exclude globs.
// Blank lines and '#' comments are skipped.
func Parse(content []byte) Patterns {
	var p Patterns
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "!") {
			if pat := strings.TrimSpace(line[1:]); pat != "" {
				p.Excludes = append(p.Excludes, filepath.ToSlash(pat))
			}
			continue
		}
		p.Includes = append(p.Includes, filepath.ToSlash(line))
	}
	return p
}

// Matcher filters workspace paths. It is safe for concurrent use; Load may
// swap the patterns while the watcher is matching.
type Matcher struct {
	mu       sync.RWMutex
	patterns Patterns
	file     string
	fs       fs.FS
}

// New creates a matcher backed by the include file at file.
func New(file string, fsys fs.FS) *Matcher {
	return &Matcher{file: filepath.Clean(file), fs: fsys}
}

// NewWithPatterns creates a matcher with fixed patterns.
func NewWithPatterns(p Patterns) *Matcher {
	return &Matcher{patterns: p}
}

// File is the include file path, empty for fixed matchers.
func (m *Matcher) File() string { return m.file }

// EnsureFile writes the default include file if it does not exist.
// It reports whether the file was created.
func (m *Matcher) EnsureFile() (bool, error) {
	if m.fs == nil || m.fs.Exists(m.file) {
		return false, nil
	}
	if err := m.fs.WriteFile(m.file, []byte(DefaultContent), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", m.file, err)
	}
	return true, nil
}

// Load (re)reads the include file, creating it with defaults first if needed.
func (m *Matcher) Load() error {
	if m.fs == nil {
		return nil
	}
	if _, err := m.EnsureFile(); err != nil {
		return err
	}
	data, err := m.fs.ReadFile(m.file)
	if err != nil {
		return fmt.Errorf("read %s: %w", m.file, err)
	}
	p := Parse(data)

	m.mu.Lock()
	m.patterns = p
	m.mu.Unlock()
	return nil
}

// Patterns returns a copy of the active patterns.
func (m *Matcher) Patterns() Patterns {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Patterns{
		Includes: append([]string(nil), m.patterns.Includes...),
		Excludes: append([]string(nil), m.patterns.Excludes...),
	}
}

// ShouldInclude reports whether path, inside workspaceRoot, is tracked.
// Exclusions win over inclusions; with no include patterns nothing is
// tracked. The include file itself never is.
func (m *Matcher) ShouldInclude(filePath, workspaceRoot string) bool {
	rel, err := filepath.Rel(workspaceRoot, filePath)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	if path.Base(rel) == FileName || (m.file != "" && filepath.Clean(filePath) == m.file) {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, pat := range m.patterns.Excludes {
		if Match(pat, rel) {
			return false
		}
	}
	for _, pat := range m.patterns.Includes {
		if Match(pat, rel) {
			return true
		}
	}
	return false
}

// Match reports whether the slash-separated relative path matches pattern.
// '*' and '?' stay within one segment, a "**" segment spans any number of
// segments, "{a,b}" alternates and a pattern without '/' is matched against
// the base name. Malformed patterns match nothing.
func Match(pattern, rel string) bool {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	pattern = strings.TrimSuffix(pattern, "/")
	if pattern == "" {
		return rel == ""
	}
	if !strings.Contains(pattern, "/") && pattern != "**" {
		rel = path.Base(rel)
	}
	ok, err := doublestar.Match(pattern, rel)
	return err == nil && ok
}
