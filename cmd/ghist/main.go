package main

import (
	"os"

	"github.com/keshon/ghist/internal/command"
	_ "github.com/keshon/ghist/internal/command/hash"
	_ "github.com/keshon/ghist/internal/command/help"
	_ "github.com/keshon/ghist/internal/command/include"
	_ "github.com/keshon/ghist/internal/command/list"
	_ "github.com/keshon/ghist/internal/command/restore"
	_ "github.com/keshon/ghist/internal/command/restore-all"
	_ "github.com/keshon/ghist/internal/command/restore-group"
	_ "github.com/keshon/ghist/internal/command/show"
	_ "github.com/keshon/ghist/internal/command/watch"
)

func main() {
	os.Exit(command.RunCLI(os.Args[1:]))
}
