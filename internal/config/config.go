// Package config loads griddle's optional YAML configuration file.
package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// DefaultFile is looked up in the working directory when no file is named.
const DefaultFile = "griddle.yaml"

// Config represents the application configuration.
type Config struct {
	Input       string          `yaml:"input,omitempty"`
	Output      string          `yaml:"output,omitempty"`
	Build       BuildConfig     `yaml:"build"`
	Markdown    MarkdownConfig  `yaml:"markdown"`
	Templates   TemplatesConfig `yaml:"templates"`
	SourceLinks *bool           `yaml:"source_links,omitempty"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Preview     PreviewConfig   `yaml:"preview"`
	Logging     LoggingConfig   `yaml:"logging"`
}

// BuildConfig controls a build run.
type BuildConfig struct {
	// Clean empties the output folder first. Defaults to true.
	Clean *bool `yaml:"clean,omitempty"`
	// Jobs bounds parallel conversions. 1 converts sequentially.
	Jobs int `yaml:"jobs,omitempty"`
	// Strict makes any failed conversion fail the run.
	Strict bool `yaml:"strict,omitempty"`
	// Excludes are substrings of relative input paths to skip.
	Excludes      []string `yaml:"excludes,omitempty"`
	IncludeHidden bool     `yaml:"include_hidden,omitempty"`
}

// MarkdownConfig tunes the Markdown adapter.
type MarkdownConfig struct {
	HighlightStyle string `yaml:"highlight_style,omitempty"`
	LineNumbers    bool   `yaml:"line_numbers,omitempty"`
}

// TemplatesConfig selects the page shell.
type TemplatesConfig struct {
	// Dir overrides the built-in template set.
	Dir       string `yaml:"dir,omitempty"`
	HomeLabel string `yaml:"home_label,omitempty"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	File string `yaml:"file,omitempty"`
}

// PreviewConfig controls the preview server.
type PreviewConfig struct {
	Addr     string        `yaml:"addr,omitempty"`
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// LoggingConfig sets diagnostics defaults; command line flags win.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// CleanOutput reports whether the output folder is emptied before a build.
func (c *Config) CleanOutput() bool { return c.Build.Clean == nil || *c.Build.Clean }

// SourceLinksEnabled reports whether pages link back to their source.
func (c *Config) SourceLinksEnabled() bool { return c.SourceLinks == nil || *c.SourceLinks }

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. An empty path means DefaultFile, which
// may be absent; a named file must exist. Environment files next to the
// configuration are loaded first and ${VAR} references are expanded.
func Load(path string) (*Config, error) {
	required := path != ""
	if !required {
		path = DefaultFile
	}

	if err := loadEnvFiles(filepath.Dir(path)); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load environment file").Build()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
		return Default(), nil
	case errors.Is(err, os.ErrNotExist):
		return nil, ferrors.ConfigError("configuration file not found").WithCause(ferrors.ErrNotFound).WithContext("path", path).Build()
	case err != nil:
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ferrors.IsClassified(err) {
			return nil, err
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").WithContext("path", path).Build()
	}
	slog.Debug("Loaded configuration", logfields.Path(path))
	return cfg, nil
}

// Parse decodes YAML configuration, expands environment references, applies
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
