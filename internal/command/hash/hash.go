package hash

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/keshon/ghist/internal/command"
	"github.com/keshon/ghist/internal/history/dirhash"
	"github.com/keshon/ghist/internal/history/store"
	"github.com/keshon/ghist/internal/middleware"
)

type Command struct {
	quiet bool
}

func (c *Command) Name() string      { return "hash" }
func (c *Command) Aliases() []string { return nil }
func (c *Command) Usage() string     { return "hash [-q] <path|uri>..." }
func (c *Command) Brief() string     { return "Print the snapshot directory id of a file" }
func (c *Command) Help() string {
	return `Print the snapshot directory the editor uses for a file. Paths are made
absolute and encoded as file URIs first; arguments containing "://" are
hashed as given.

Options:
  -q, --quiet   Print only the directory id.

Examples:
  ghist hash src/main.go
  ghist hash file:///home/me/project/main.go`
}

func (c *Command) Subcommands() []command.Command { return nil }

func (c *Command) Flags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "print only the directory id")
}

func (c *Command) Run(ctx *command.Context) error {
	if len(ctx.Args) == 0 {
		return errors.New("expected at least one path or URI")
	}
	for _, arg := range ctx.Args {
		uri, err := resource(arg)
		if err != nil {
			return err
		}
		dir := dirhash.Hash(uri)
		if c.quiet {
			fmt.Fprintln(ctx.Stdout, dir)
		} else {
			fmt.Fprintf(ctx.Stdout, "%s  %s\n", dir, uri)
		}
	}
	return nil
}

func resource(arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	return store.ResourceURI(abs), nil
}

func init() {
	command.RegisterCommand(
		command.ApplyMiddlewares(
			&Command{},
			middleware.WithDebugArgsPrint(),
		),
	)
}
