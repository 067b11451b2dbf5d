package config

import (
	"log/slog"

	"git.home.luguber.info/inful/griddle/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = normalization.NewEnum(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelWarn)

// NormalizeLogLevel maps raw onto a LogLevel, defaulting to warn.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevels.Lookup(raw)
}

var slogLevels = map[LogLevel]slog.Level{
	LogLevelDebug: slog.LevelDebug,
	LogLevelInfo:  slog.LevelInfo,
	LogLevelWarn:  slog.LevelWarn,
	LogLevelError: slog.LevelError,
}

// SlogLevel converts the level for log/slog; unknown levels map to warn.
func (l LogLevel) SlogLevel() slog.Level {
	if lv, ok := slogLevels[l]; ok {
		return lv
	}
	return slog.LevelWarn
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = normalization.NewEnum(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// NormalizeLogFormat maps raw onto a LogFormat, defaulting to text.
func NormalizeLogFormat(raw string) LogFormat {
	return logFormats.Lookup(raw)
}
