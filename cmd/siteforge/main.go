package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/siteforge/cmd/siteforge/commands"
	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
	"git.home.luguber.info/inful/siteforge/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("siteforge"),
		kong.Description("Dependency-ordered static-site build orchestrator."),
		kong.Vars{"version": version.Version},
	)

	global := &commands.Global{Logger: slog.Default()}
	err := ctx.Run(global, &cli)

	adapter := sferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
	adapter.HandleError(err)
}
