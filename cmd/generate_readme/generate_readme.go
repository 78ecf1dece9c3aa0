package main

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/spf13/pflag"

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
	tplPath := pflag.StringP("template", "t", "README.md.tmpl", "template to render")
	outPath := pflag.StringP("out", "o", "README.md", "output file")
	pflag.Parse()

	tplBytes, err := os.ReadFile(*tplPath)
	if err != nil {
		fmt.Printf("Failed to read template: %v\n", err)
		os.Exit(1)
	}

	tpl, err := template.New("readme").Parse(string(tplBytes))
	if err != nil {
		fmt.Printf("Failed to parse template: %v\n", err)
		os.Exit(1)
	}

	var sections strings.Builder
	for _, cmd := range command.AllCommands() {
		fmt.Fprintf(&sections, "### %s\n```\nghist %s\n\n%s\n```\n\n", cmd.Name(), cmd.Usage(), cmd.Help())
		for _, sub := range cmd.Subcommands() {
			fmt.Fprintf(&sections, "#### %s %s\n```\nghist %s\n\n%s\n```\n\n", cmd.Name(), sub.Name(), sub.Usage(), sub.Help())
		}
	}

	data := map[string]string{
		"CommandSections": sections.String(),
	}

	outFile, err := os.Create(*outPath)
	if err != nil {
		fmt.Printf("Failed to create %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := tpl.Execute(outFile, data); err != nil {
		fmt.Printf("Failed to render template: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s generated successfully\n", *outPath)
}
