package command

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/config"
	"github.com/keshon/ghist/internal/fs"
	"github.com/keshon/ghist/internal/history"
)

// Command represents a cli command
type Command interface {
	Name() string
	Aliases() []string
	Usage() string
	Brief() string
	Help() string
	Subcommands() []Command
	Flags(fs *pflag.FlagSet)
	Run(ctx *Context) error
}

// Global holds the flags accepted by every command.
type Global struct {
	Workspace  string
	ConfigPath string
	Yes        bool
	Verbose    bool
}

func (g *Global) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.Workspace, "workspace", "w", "", "workspace root (default: current directory)")
	fs.StringVar(&g.ConfigPath, "config", "", "config file path")
	fs.BoolVarP(&g.Yes, "yes", "y", false, "answer yes to prompts")
	fs.BoolVarP(&g.Verbose, "verbose", "v", false, "debug logging")
}

// Context represents a cli context. Config and History are filled in by
// middleware.
type Context struct {
	context.Context

	Args   []string
	Flags  *pflag.FlagSet
	Global Global

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config  *config.Config
	History *history.History

	// HistoryOptions is passed to history.Open; tests inject stores here.
	HistoryOptions *history.Options
}

// FS returns the injected filesystem, or the OS one.
func (ctx *Context) FS() fs.FS {
	if ctx.HistoryOptions != nil && ctx.HistoryOptions.FS != nil {
		return ctx.HistoryOptions.FS
	}
	return fs.NewOSFS()
}

// Workspace returns the injected workspace, or the one from the config.
func (ctx *Context) Workspace() (string, error) {
	if ctx.HistoryOptions != nil && ctx.HistoryOptions.Workspace != "" {
		return ctx.HistoryOptions.Workspace, nil
	}
	if ctx.Config == nil {
		return "", errors.New("no configuration loaded")
	}
	return ctx.Config.ResolveWorkspace()
}
