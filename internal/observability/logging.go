// Package observability carries per-build logging context through a context.Context.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// LogContext is the build identity attached to every log line of a run.
type LogContext struct {
	BuildID string
	Stage   string
}

type ctxKey struct{}

// FromContext returns the LogContext stored in ctx, or an empty one.
func FromContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(ctxKey{}).(LogContext)
	return lc
}

// WithBuildID returns ctx tagged with a build ID.
func WithBuildID(ctx context.Context, buildID string) context.Context {
	lc := FromContext(ctx)
	lc.BuildID = buildID
	return context.WithValue(ctx, ctxKey{}, lc)
}

// WithStage returns ctx tagged with the pipeline stage.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := FromContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, ctxKey{}, lc)
}

// Log writes msg to the default logger, prefixed with the build ID and stage found in ctx.
func Log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if !slog.Default().Enabled(ctx, level) {
		return
	}
	lc := FromContext(ctx)
	all := make([]slog.Attr, 0, len(attrs)+2)
	if lc.BuildID != "" {
		all = append(all, logfields.BuildID(lc.BuildID))
	}
	if lc.Stage != "" {
		all = append(all, logfields.Stage(lc.Stage))
	}
	slog.LogAttrs(ctx, level, msg, append(all, attrs...)...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Log(ctx, slog.LevelDebug, msg, attrs...)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Log(ctx, slog.LevelInfo, msg, attrs...)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Log(ctx, slog.LevelWarn, msg, attrs...)
}
