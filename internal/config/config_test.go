package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvStore, "")
	t.Setenv(EnvWorkspace, "")
	p := writeConfig(t, `
editor: code
store_root: /data/History
window_seconds: 12
sort: most-files
assume_yes: true
watch:
  refresh_interval: 5s
  debounce: 50ms
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Code, cfg.Editor)
	assert.Equal(t, "/data/History", cfg.StoreRoot)
	assert.Equal(t, 12, cfg.WindowSeconds)
	assert.Equal(t, "most-files", cfg.Sort)
	assert.True(t, cfg.AssumeYes)
	assert.Equal(t, 5*time.Second, cfg.Watch.RefreshInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, ".groupedtimelineinclude", cfg.IncludeFile, "unset fields keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	p := writeConfig(t, "store_root: /from/file\n")
	t.Setenv(EnvStore, "/from/env")
	t.Setenv(EnvWorkspace, "/ws")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.StoreRoot)
	assert.Equal(t, "/ws", cfg.Workspace)
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	t.Setenv(EnvConfig, writeConfig(t, "window_seconds: 30\n"))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.WindowSeconds)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().WindowSeconds, cfg.WindowSeconds)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "window_seconds: [oops\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"uppercase editor", func(c *Config) { c.Editor = "Code" }, true},
		{"unknown editor", func(c *Config) { c.Editor = "vim" }, false},
		{"zero window", func(c *Config) { c.WindowSeconds = 0 }, false},
		{"bad sort", func(c *Config) { c.Sort = "random" }, false},
		{"empty include file", func(c *Config) { c.IncludeFile = "" }, false},
		{"zero refresh", func(c *Config) { c.Watch.RefreshInterval = 0 }, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStoreRootFor(t *testing.T) {
	cases := []struct {
		editor Editor
		goos   string
		want   string
	}{
		{Cursor, "windows", filepath.Join("C:/Users/u/AppData/Roaming", "Cursor", "User", "History")},
		{Code, "darwin", filepath.Join("/Users/u", "Library", "Application Support", "Code", "User", "History")},
		{Cursor, "linux", filepath.Join("/home/u", ".config", "Cursor", "User", "History")},
		{Code, "freebsd", filepath.Join("/home/u", ".config", "Code", "User", "History")},
	}
	for _, tt := range cases {
		t.Run(tt.goos, func(t *testing.T) {
			home := "/home/u"
			if tt.goos == "darwin" {
				home = "/Users/u"
			}
			got, err := StoreRootFor(tt.editor, tt.goos, "C:/Users/u/AppData/Roaming", home)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := StoreRootFor(Cursor, "windows", "", "/home/u")
	assert.Error(t, err)
}

func TestResolveIncludeFile(t *testing.T) {
	c := Default()
	assert.Equal(t, filepath.Join("/ws", ".groupedtimelineinclude"), c.ResolveIncludeFile("/ws"))
	c.IncludeFile = "/abs/include"
	assert.Equal(t, "/abs/include", c.ResolveIncludeFile("/ws"))
}
