package config

import (
	"strings"
	"time"
)

const (
	DefaultJobs            = 1
	DefaultHighlightStyle  = "github"
	DefaultHomeLabel       = "Home"
	DefaultPreviewAddr     = ":8080"
	DefaultPreviewDebounce = 300 * time.Millisecond
)

// DefaultExcludes are skipped unless the configuration lists its own.
var DefaultExcludes = []string{"node_modules"}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.Build.Jobs == 0 {
		cfg.Build.Jobs = DefaultJobs
	}
	if cfg.Build.Excludes == nil {
		cfg.Build.Excludes = append([]string(nil), DefaultExcludes...)
	}
	cfg.Build.Excludes = trimStringSlice(cfg.Build.Excludes)

	if cfg.Markdown.HighlightStyle == "" {
		cfg.Markdown.HighlightStyle = DefaultHighlightStyle
	}
	if cfg.Templates.HomeLabel == "" {
		cfg.Templates.HomeLabel = DefaultHomeLabel
	}
	if cfg.Preview.Addr == "" {
		cfg.Preview.Addr = DefaultPreviewAddr
	}
	if cfg.Preview.Debounce == 0 {
		cfg.Preview.Debounce = DefaultPreviewDebounce
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelWarn)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
}

// trimStringSlice removes empty entries (after trimming whitespace). Order is kept.
func trimStringSlice(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
