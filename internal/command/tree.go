package command

import (
	"fmt"
	"sort"
)

// Node represents a node in the command tree.
type Node struct {
	Cmd         Command
	Subcommands map[string]*Node
}

// CommandTree manages all commands and subcommands.
type CommandTree struct {
	root *Node
}

// NewTree creates a new empty command tree.
func NewTree() *CommandTree {
	return &CommandTree{
		root: &Node{Subcommands: make(map[string]*Node)},
	}
}

// Register inserts a command and all its subcommands recursively.
func (t *CommandTree) Register(cmd Command) {
	t.insert(t.root, cmd)
}

// Get returns a top-level command by name or alias.
func (t *CommandTree) Get(name string) (Command, bool) {
	node, ok := t.root.Subcommands[name]
	if !ok {
		return nil, false
	}
	return node.Cmd, true
}

func (t *CommandTree) insert(node *Node, cmd Command) {
	sub := &Node{Cmd: cmd, Subcommands: make(map[string]*Node)}
	for _, subcmd := range cmd.Subcommands() {
		t.insert(sub, subcmd)
	}
	for _, n := range append([]string{cmd.Name()}, cmd.Aliases()...) {
		node.Subcommands[n] = sub
	}
}

// Resolve walks down the command tree following args and returns the
// deepest command plus the unconsumed args.
func (t *CommandTree) Resolve(args []string) (*Node, []string, error) {
	node := t.root
	for len(args) > 0 {
		next, ok := node.Subcommands[args[0]]
		if !ok {
			break
		}
		node = next
		args = args[1:]
	}
	if node.Cmd == nil {
		if len(args) == 0 {
			return nil, nil, fmt.Errorf("no command provided")
		}
		if s := suggest(args[0], t.Names()); s != "" {
			return nil, nil, fmt.Errorf("unknown command %q (did you mean %q?)", args[0], s)
		}
		return nil, nil, fmt.Errorf("unknown command %q", args[0])
	}
	return node, args, nil
}

// Commands returns each top-level command once, sorted by name.
func (t *CommandTree) Commands() []Command {
	seen := make(map[Command]struct{})
	var cmds []Command
	for _, node := range t.root.Subcommands {
		if _, ok := seen[node.Cmd]; ok {
			continue
		}
		seen[node.Cmd] = struct{}{}
		cmds = append(cmds, node.Cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}

// Names returns every top-level name and alias.
func (t *CommandTree) Names() []string {
	names := make([]string, 0, len(t.root.Subcommands))
	for n := range t.root.Subcommands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
