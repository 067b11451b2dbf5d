package commands

import "git.home.luguber.info/inful/griddle/internal/config"

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file."`
}

func (i *InitCmd) Run(g *Global) error {
	path := g.ConfigPath
	if path == "" {
		path = config.DefaultFile
	}
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	g.Reporter.Successf("Wrote example configuration to %s", path)
	return nil
}
