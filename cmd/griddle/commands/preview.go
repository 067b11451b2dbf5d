package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
	"git.home.luguber.info/inful/griddle/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Input    string        `short:"i" help:"Folder with the source documents." type:"path"`
	Output   string        `short:"o" help:"Folder the HTML site is written to (defaults to a temporary folder)." type:"path"`
	Addr     string        `help:"Listen address."`
	Debounce time.Duration `help:"Quiet period after a change before rebuilding."`
}

func (p *PreviewCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := g.Config
	if p.Input != "" {
		cfg.Input = p.Input
	}
	if p.Output != "" {
		cfg.Output = p.Output
	}
	if p.Addr != "" {
		cfg.Preview.Addr = p.Addr
	}
	if p.Debounce > 0 {
		cfg.Preview.Debounce = p.Debounce
	}

	if cfg.Output == "" {
		tmp, err := os.MkdirTemp("", "griddle-preview-*")
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create temporary output folder").Build()
		}
		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				slog.Warn("Unable to remove temporary output folder", logfields.Path(tmp), logfields.Error(err))
			}
		}()
		cfg.Output = tmp
		g.Reporter.Infof("Writing preview output to %s", tmp)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}
	return preview.New(preview.Options{
		Build:    opts,
		Addr:     cfg.Preview.Addr,
		Debounce: cfg.Preview.Debounce,
	}, g.Reporter).Run(ctx)
}
