package include

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ghist/internal/fs"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		pat  string
		path string
		want bool
	}{
		// base name patterns match at any depth
		{"*.ts", "index.ts", true},
		{"*.ts", "src/deep/index.ts", true},
		{"*.ts", "src/index.js", false},
		{"main.go", "cmd/app/main.go", true},
		{"file?.txt", "a/file1.txt", true},
		{"file?.txt", "a/file12.txt", false},

		// dotfiles are not special
		{"*", ".env", true},
		{"*.json", "config/.eslintrc.json", true},

		// anchored patterns
		{"src/*.go", "src/a.go", true},
		{"src/*.go", "src/sub/a.go", false},
		{"src/*.go", "other/src/a.go", false},

		// double star
		{"**", "anything/at/all.txt", true},
		{"*/**", "a/b.txt", true},
		{"*/**", "a/b/c.txt", true},
		{"node_modules/**", "node_modules/pkg/index.js", true},
		{"node_modules/**", "src/node_modules/index.js", false},
		{"src/**/*.ts", "src/a.ts", true},
		{"src/**/*.ts", "src/a/b/c.ts", true},
		{"src/**/*.ts", "lib/a.ts", false},
		{"**/test/*.go", "pkg/test/a_test.go", true},

		// "**" inside a segment behaves like "*"
		{"*/**.exe", "bin/tool.exe", true},
		{"*/**.exe", "bin/sub/tool.exe", false},

		// brace alternatives
		{"*.{ts,tsx}", "src/c.tsx", true},
		{"*.{go,md}", "README.md", true},
		{"*.{go,md}", "main.go", true},
		{"*.{go,md}", "main.rs", false},
		{"src/**/*.{ts,tsx}", "src/a/b.ts", true},
		{"src/**/*.{ts,tsx}", "src/c.tsx", true},
		{"{cmd,internal}/**/*.go", "internal/a/b.go", true},
		{"{cmd,internal}/**/*.go", "pkg/a.go", false},

		// character classes
		{"file[0-9].txt", "file7.txt", true},
		{"file[0-9].txt", "filex.txt", false},

		// malformed patterns match nothing
		{"[", "[", false},

		// leading ./ and trailing slash are ignored
		{"./docs/*.md", "docs/readme.md", true},
		{"build/", "build", true},
	}

	for _, tt := range cases {
		got := Match(tt.pat, tt.path)
		assert.Equalf(t, tt.want, got, "Match(%q, %q)", tt.pat, tt.path)
	}
}

func TestParse(t *testing.T) {
	content := []byte(`# comment

*.go
  src/**/*.ts  
!vendor/**
!   *.gen.go
!
`)
	p := Parse(content)
	assert.Equal(t, []string{"*.go", "src/**/*.ts"}, p.Includes)
	assert.Equal(t, []string{"vendor/**", "*.gen.go"}, p.Excludes)
}

func TestShouldInclude(t *testing.T) {
	root := filepath.FromSlash("/work/project")
	m := NewWithPatterns(Patterns{
		Includes: []string{"*.go", "docs/**"},
		Excludes: []string{"vendor/**", "*_gen.go"},
	})

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"included by base name", "/work/project/cmd/main.go", true},
		{"included by directory", "/work/project/docs/guide/intro.md", true},
		{"excluded directory wins", "/work/project/vendor/lib/x.go", false},
		{"excluded base name wins", "/work/project/api/types_gen.go", false},
		{"no include pattern matches", "/work/project/README.md", false},
		{"outside the workspace", "/work/other/main.go", false},
		{"workspace root itself", "/work/project", false},
		{"include file never tracked", "/work/project/" + FileName, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ShouldInclude(filepath.FromSlash(tt.path), root))
		})
	}
}

func TestShouldInclude_BraceAlternatives(t *testing.T) {
	m := NewWithPatterns(Parse([]byte("src/**/*.{ts,tsx}\n*.{go,md}\n!*_test.{go,ts}\n")))

	for _, p := range []string{"/w/src/a/b.ts", "/w/src/c.tsx", "/w/main.go", "/w/README.md"} {
		assert.Truef(t, m.ShouldInclude(p, "/w"), "%s should be tracked", p)
	}
	for _, p := range []string{"/w/lib/a.ts", "/w/main_test.go", "/w/src/x_test.ts"} {
		assert.Falsef(t, m.ShouldInclude(p, "/w"), "%s should not be tracked", p)
	}
}

func TestShouldInclude_NoIncludesMatchesNothing(t *testing.T) {
	m := NewWithPatterns(Patterns{Excludes: []string{"tmp/**"}})
	assert.False(t, m.ShouldInclude("/w/a.go", "/w"))
}

func TestShouldInclude_DefaultTemplateTracksNothing(t *testing.T) {
	m := NewWithPatterns(Parse([]byte(DefaultContent)))
	assert.Empty(t, m.Patterns().Includes)
	assert.NotEmpty(t, m.Patterns().Excludes)
	assert.False(t, m.ShouldInclude("/w/src/a.ts", "/w"))
}

func TestLoad_WritesDefaultFile(t *testing.T) {
	mfs := fs.NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/w", 0o755))

	m := New(filepath.Join("/w", FileName), mfs)
	require.NoError(t, m.Load())

	data, err := mfs.ReadFile(filepath.Join("/w", FileName))
	require.NoError(t, err)
	assert.Equal(t, DefaultContent, string(data))

	created, err := m.EnsureFile()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLoad_PicksUpEdits(t *testing.T) {
	mfs := fs.NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/w", 0o755))
	require.NoError(t, mfs.WriteFile("/w/"+FileName, []byte("*.go\n"), 0o644))

	m := New(filepath.Join("/w", FileName), mfs)
	require.NoError(t, m.Load())
	assert.True(t, m.ShouldInclude("/w/a.go", "/w"))
	assert.False(t, m.ShouldInclude("/w/a.ts", "/w"))

	require.NoError(t, mfs.WriteFile("/w/"+FileName, []byte("*.ts\n"), 0o644))
	require.NoError(t, m.Load())
	assert.False(t, m.ShouldInclude("/w/a.go", "/w"))
	assert.True(t, m.ShouldInclude("/w/a.ts", "/w"))
}
