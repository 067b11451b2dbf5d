package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/griddle/cmd/griddle/commands"
	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/version"
)

func main() {
	var cli commands.CLI
	kctx := kong.Parse(&cli,
		kong.Name("griddle"),
		kong.Description("Convert a folder of Markdown, AsciiDoc and PDF documents into a browsable HTML site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		commands.Vars(),
	)

	global, err := cli.Setup(os.Stdout, kctx.Command() != "init")
	if err == nil {
		err = kctx.Run(global)
	}
	os.Exit(ferrors.NewCLIErrorAdapter(cli.Debug, slog.Default()).HandleError(err))
}
