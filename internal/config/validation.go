package config

import (
	"github.com/alecthomas/chroma/v2/styles"

	"git.home.luguber.info/inful/griddle/internal/foundation"
)

// Validate checks value ranges and enum fields.
func Validate(cfg *Config) error {
	var p foundation.Problems
	p.Require(cfg.Build.Jobs >= 1, "build.jobs", "min", "must be at least 1, got %d", cfg.Build.Jobs)
	p.Require(cfg.Preview.Debounce >= 0, "preview.debounce", "min", "must not be negative")
	p.Require(styles.Registry[cfg.Markdown.HighlightStyle] != nil,
		"markdown.highlight_style", "one_of", "unknown chroma style %q", cfg.Markdown.HighlightStyle)

	if _, err := logLevels.Parse(cfg.Logging.Level); err != nil {
		p.Add("logging.level", "one_of", "%v", err)
	}
	if _, err := logFormats.Parse(cfg.Logging.Format); err != nil {
		p.Add("logging.format", "one_of", "%v", err)
	}
	return p.Err()
}
