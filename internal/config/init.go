package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
)

// Init writes an example configuration to path. An existing file is kept unless force is set.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").WithContext("path", path).Build()
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat config file").WithContext("path", path).Build()
	}

	clean := true
	links := true
	example := Config{
		Input:  "./docs",
		Output: "./site",
		Build: BuildConfig{
			Clean:    &clean,
			Jobs:     4,
			Excludes: []string{"node_modules", "drafts/"},
		},
		Markdown: MarkdownConfig{
			HighlightStyle: DefaultHighlightStyle,
		},
		Templates: TemplatesConfig{
			HomeLabel: DefaultHomeLabel,
		},
		SourceLinks: &links,
		Preview: PreviewConfig{
			Addr:     DefaultPreviewAddr,
			Debounce: DefaultPreviewDebounce,
		},
		Logging: LoggingConfig{
			Level:  string(LogLevelWarn),
			Format: string(LogFormatText),
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").WithContext("path", path).Build()
	}
	return nil
}
