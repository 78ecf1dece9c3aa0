package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/keshon/ghist/internal/ux"
)

// PrintHelp writes usage, help text, flags and aliases of cmd to w.
func PrintHelp(w io.Writer, cmd Command) {
	if usage := cmd.Usage(); usage != "" {
		fmt.Fprintf(w, "%s ghist %s\n\n", ux.Styles.Muted.Render("Usage:"), usage)
	}
	fmt.Fprintf(w, "%s\n", strings.TrimRight(cmd.Help(), "\n"))

	if flags := NewFlagSet(cmd).FlagUsages(); flags != "" {
		fmt.Fprintf(w, "\n%s\n%s", ux.Styles.Muted.Render("Flags:"), flags)
	}

	var g Global
	gfs := NewFlagSet(noFlags{})
	g.register(gfs)
	fmt.Fprintf(w, "\n%s\n%s", ux.Styles.Muted.Render("Global flags:"), gfs.FlagUsages())

	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(w, "\nAliases: %s\n", strings.Join(aliases, ", "))
	}
}

// PrintCommands lists commands git-style: name, padding, brief.
func PrintCommands(w io.Writer, cmds []Command) {
	longest := 0
	for _, cmd := range cmds {
		longest = max(longest, len(cmd.Name()))
	}
	for _, cmd := range cmds {
		desc := cmd.Brief()
		if desc == "" {
			desc = "-"
		}
		padding := strings.Repeat(" ", longest-len(cmd.Name())+2)
		fmt.Fprintf(w, "  %s%s%s\n", ux.Styles.Bold.Render(cmd.Name()), padding, desc)
	}
}
