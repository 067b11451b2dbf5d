package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// RouteLogrus sends entries of l (the logrus standard logger when nil) to
// target instead of l's own output. Libraries such as libasciidoc log through
// logrus; their info-level timing lines are demoted to debug, and nothing below
// warn reaches the hook unless debug is set.
func RouteLogrus(l *logrus.Logger, target *slog.Logger, debug bool) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.WarnLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	hooks := make(logrus.LevelHooks)
	hooks.Add(logrusHook{target: target})
	l.ReplaceHooks(hooks)
}

type logrusHook struct {
	target *slog.Logger
}

func (logrusHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h logrusHook) Fire(e *logrus.Entry) error {
	ctx := e.Context
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := make([]slog.Attr, 0, len(e.Data)+1)
	attrs = append(attrs, slog.String("logger", "logrus"))
	for k, v := range e.Data {
		attrs = append(attrs, slog.Any(k, v))
	}
	h.target.LogAttrs(ctx, slogLevel(e.Level), e.Message, attrs...)
	return nil
}

func slogLevel(l logrus.Level) slog.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return slog.LevelError
	case logrus.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}
