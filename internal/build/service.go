// Package build runs a complete conversion: collect sources, convert each file,
// install the page shell and splice the navigation into index.html.
// Every entry point (build command, preview server, tests) goes through Builder.
package build

import (
	"io/fs"
	"time"

	"git.home.luguber.info/inful/griddle/internal/config"
	"git.home.luguber.info/inful/griddle/internal/convert"
	"git.home.luguber.info/inful/griddle/internal/metrics"
)

// Options are the inputs of one build run.
type Options struct {
	Input  string
	Output string

	// Clean empties Output before converting.
	Clean bool
	// Jobs bounds parallel conversions; values below 2 convert sequentially.
	Jobs int
	// Strict turns any failed conversion into a build error.
	Strict bool

	Excludes      []string
	IncludeHidden bool

	// Templates is the page shell. Nil means the built-in set.
	Templates fs.FS
	HomeLabel string

	SourceLinks bool
	Markdown    convert.MarkdownOptions
}

// OptionsFromConfig maps a loaded configuration onto build options.
// Input and Output are left for the caller when the configuration leaves them empty.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Input:         cfg.Input,
		Output:        cfg.Output,
		Clean:         cfg.CleanOutput(),
		Jobs:          cfg.Build.Jobs,
		Strict:        cfg.Build.Strict,
		Excludes:      cfg.Build.Excludes,
		IncludeHidden: cfg.Build.IncludeHidden,
		HomeLabel:     cfg.Templates.HomeLabel,
		SourceLinks:   cfg.SourceLinksEnabled(),
		Markdown: convert.MarkdownOptions{
			HighlightStyle: cfg.Markdown.HighlightStyle,
			LineNumbers:    cfg.Markdown.LineNumbers,
		},
	}
}

// Report summarizes a build run.
type Report struct {
	BuildID string
	Input   string
	Output  string

	Converted int
	Failed    int
	Skipped   int
	Warnings  int

	// Pages lists the navigation entries, as paths relative to Output.
	Pages      []string
	NavSpliced bool

	StartTime time.Time
	Duration  time.Duration
}

// Outcome classifies the run for metrics.
func (r *Report) Outcome() metrics.BuildOutcomeLabel {
	switch {
	case r.Failed > 0:
		return metrics.BuildOutcomeFailed
	case r.Warnings > 0 || r.Skipped > 0:
		return metrics.BuildOutcomeWarning
	default:
		return metrics.BuildOutcomeSuccess
	}
}
