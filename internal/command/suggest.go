package command

import (
	"strings"

	"github.com/spf13/pflag"
)

// suggest returns the candidate closest to unknown within an edit
// distance of 3, or "".
func suggest(unknown string, candidates []string) string {
	best := ""
	bestDistance := 4
	for _, c := range candidates {
		if d := levenshtein(unknown, c); d < bestDistance {
			bestDistance = d
			best = c
		}
	}
	return best
}

// suggestFlag finds the first undefined flag in args and returns the
// closest defined one with its dashes, or "".
func suggestFlag(args []string, fs *pflag.FlagSet) string {
	var defined []string
	fs.VisitAll(func(f *pflag.Flag) { defined = append(defined, f.Name) })

	for _, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		if fs.Lookup(name) != nil {
			continue
		}
		if s := suggest(name, defined); s != "" {
			return "--" + s
		}
		return ""
	}
	return ""
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
