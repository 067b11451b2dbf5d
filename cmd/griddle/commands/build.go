package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/griddle/internal/build"
	"git.home.luguber.info/inful/griddle/internal/config"
	"git.home.luguber.info/inful/griddle/internal/console"
	"git.home.luguber.info/inful/griddle/internal/logfields"
	"git.home.luguber.info/inful/griddle/internal/metrics"
	"git.home.luguber.info/inful/griddle/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Input       string `short:"i" help:"Folder with the source documents." type:"path"`
	Output      string `short:"o" help:"Folder the HTML site is written to." type:"path"`
	Jobs        int    `short:"j" help:"Number of files converted in parallel."`
	NoClean     bool   `name:"no-clean" help:"Keep existing files in the output folder."`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus build metrics to this file." type:"path"`
	Templates   string `name:"templates" help:"Folder with a custom page shell (must contain index.html)." type:"path"`
	Strict      bool   `help:"Fail the build when any file fails to convert."`
}

// apply overlays the flags that were given onto cfg.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Input != "" {
		cfg.Input = b.Input
	}
	if b.Output != "" {
		cfg.Output = b.Output
	}
	if b.Jobs > 0 {
		cfg.Build.Jobs = b.Jobs
	}
	if b.NoClean {
		off := false
		cfg.Build.Clean = &off
	}
	if b.MetricsFile != "" {
		cfg.Metrics.File = b.MetricsFile
	}
	if b.Templates != "" {
		cfg.Templates.Dir = b.Templates
	}
	if b.Strict {
		cfg.Build.Strict = true
	}
}

func (b *BuildCmd) Run(g *Global) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b.apply(g.Config)
	_, err := RunBuild(ctx, g.Config, g.Reporter)
	return err
}

// RunBuild performs one build from cfg and prints the summary.
func RunBuild(ctx context.Context, cfg *config.Config, r *console.Reporter) (*build.Report, error) {
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}

	builder := build.New(opts, r)
	var rec *metrics.PrometheusRecorder
	if cfg.Metrics.File != "" {
		rec = metrics.NewPrometheusRecorder(nil)
		builder.WithRecorder(rec)
	}

	report, err := builder.Run(ctx)
	if rec != nil {
		if werr := rec.WriteTextfile(cfg.Metrics.File); werr != nil {
			slog.Warn("Unable to write metrics file", logfields.Path(cfg.Metrics.File), logfields.Error(werr))
		}
	}
	if report != nil && report.Output != "" {
		summarize(r, report)
	}
	return report, err
}

// buildOptions resolves cfg into builder options, loading a custom template set if one is named.
func buildOptions(cfg *config.Config) (build.Options, error) {
	opts := build.OptionsFromConfig(cfg)
	if cfg.Templates.Dir != "" {
		templates, err := site.FromDir(cfg.Templates.Dir)
		if err != nil {
			return opts, err
		}
		opts.Templates = templates
	}
	return opts, nil
}

func summarize(r *console.Reporter, report *build.Report) {
	if report.Failed > 0 {
		r.Warnf("%d of %d file(s) failed to convert", report.Failed, report.Failed+report.Converted)
	}
	if !report.NavSpliced {
		r.Verbosef("%s has no navigation marker; navigation was not inserted", site.IndexPage)
	}
	r.Successf("Converted %d file(s) into %s in %s", report.Converted, report.Output, report.Duration.Round(time.Millisecond))
}
