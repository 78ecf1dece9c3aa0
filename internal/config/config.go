package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Editor names the editor whose snapshot store is read.
type Editor string

const (
	Cursor Editor = "cursor"
	Code   Editor = "code"
)

// Dir is the editor's application directory name.
func (e Editor) Dir() string {
	if e == Code {
		return "Code"
	}
	return "Cursor"
}

// Environment variables consulted by Load.
const (
	EnvConfig    = "GHIST_CONFIG"
	EnvStore     = "GHIST_STORE"
	EnvWorkspace = "GHIST_WORKSPACE"
)

// Config is the ghist configuration file.
type Config struct {
	// Editor selects the default store location: cursor or code.
	// Default: cursor
	Editor Editor `yaml:"editor"`

	// StoreRoot overrides the snapshot store location.
	StoreRoot string `yaml:"store_root"`

	// Workspace is the workspace root. Default: current directory.
	Workspace string `yaml:"workspace"`

	// WindowSeconds is the grouping window.
	// Default: 5
	WindowSeconds int `yaml:"window_seconds"`

	// IncludeFile overrides the include file path, relative to the workspace.
	// Default: .groupedtimelineinclude
	IncludeFile string `yaml:"include_file"`

	// Sort is the default list order: newest, oldest, most-files, fewest-files.
	Sort string `yaml:"sort"`

	// AssumeYes skips confirmation prompts.
	AssumeYes bool `yaml:"assume_yes"`

	Watch WatchConfig `yaml:"watch"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// RefreshInterval is how often pending rescans are pulled.
	// Default: 2s
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// Debounce groups file events.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor:        Cursor,
		WindowSeconds: 5,
		IncludeFile:   ".groupedtimelineinclude",
		Sort:          "newest",
		Watch: WatchConfig{
			RefreshInterval: 2 * time.Second,
			Debounce:        200 * time.Millisecond,
		},
	}
}

// Load reads the configuration from path, $GHIST_CONFIG, or the user config
// directory, in that order. A missing file yields defaults; environment
// overrides apply last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if path != "" {
		err := cfg.loadFile(path)
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, err
		}
	}
	cfg.applyEnvironmentOverrides()
	return cfg, nil
}

// DefaultPath is <UserConfigDir>/ghist/config.yaml, or "" if unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ghist", "config.yaml")
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvStore); v != "" {
		c.StoreRoot = v
	}
	if v := os.Getenv(EnvWorkspace); v != "" {
		c.Workspace = v
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error

	switch Editor(strings.ToLower(string(c.Editor))) {
	case Cursor, Code:
	default:
		errs = append(errs, fmt.Errorf("editor must be one of: cursor, code (got %q)", c.Editor))
	}
	if c.WindowSeconds <= 0 {
		errs = append(errs, fmt.Errorf("window_seconds must be positive (got %d)", c.WindowSeconds))
	}
	switch c.Sort {
	case "", "newest", "oldest", "most-files", "fewest-files":
	default:
		errs = append(errs, fmt.Errorf("sort must be one of: newest, oldest, most-files, fewest-files (got %q)", c.Sort))
	}
	if c.IncludeFile == "" {
		errs = append(errs, fmt.Errorf("include_file is required"))
	}
	if c.Watch.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("watch.refresh_interval must be positive"))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ResolveStoreRoot returns the snapshot store directory.
func (c *Config) ResolveStoreRoot() (string, error) {
	if c.StoreRoot != "" {
		return expandHome(c.StoreRoot)
	}
	return StoreRootFor(Editor(strings.ToLower(string(c.Editor))), runtime.GOOS, os.Getenv("APPDATA"), homeDir())
}

// StoreRootFor is the editor's History directory on goos.
func StoreRootFor(editor Editor, goos, appData, home string) (string, error) {
	switch goos {
	case "windows":
		if appData == "" {
			return "", errors.New("APPDATA is not set")
		}
		return filepath.Join(appData, editor.Dir(), "User", "History"), nil
	case "darwin":
		if home == "" {
			return "", errors.New("home directory unknown")
		}
		return filepath.Join(home, "Library", "Application Support", editor.Dir(), "User", "History"), nil
	default:
		if home == "" {
			return "", errors.New("home directory unknown")
		}
		return filepath.Join(home, ".config", editor.Dir(), "User", "History"), nil
	}
}

// ResolveWorkspace returns the absolute workspace root.
func (c *Config) ResolveWorkspace() (string, error) {
	ws := c.Workspace
	if ws == "" {
		ws = "."
	}
	ws, err := expandHome(ws)
	if err != nil {
		return "", err
	}
	return filepath.Abs(ws)
}

// ResolveIncludeFile returns the include file path inside workspace.
func (c *Config) ResolveIncludeFile(workspace string) string {
	if filepath.IsAbs(c.IncludeFile) {
		return c.IncludeFile
	}
	return filepath.Join(workspace, c.IncludeFile)
}

func homeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home := homeDir()
	if home == "" {
		return "", fmt.Errorf("expand %s: home directory unknown", p)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
