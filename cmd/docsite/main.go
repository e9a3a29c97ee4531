package main

import (
	"github.com/alecthomas/kong"

	"github.com/elizaos/docsite/cmd/docsite/commands"
	"github.com/elizaos/docsite/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Static documentation site generator for MDX content."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
