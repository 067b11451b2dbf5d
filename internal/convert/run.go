package convert

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/griddle/internal/console"
	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// Run converts one file and reports the outcome on r. Failures are printed,
// never returned: the result is false and no other conversion is affected.
func Run(ctx context.Context, r *console.Reporter, a Adapter, job Job) bool {
	if job.Warn == nil {
		job.Warn = r.Warnf
	}

	if err := Do(ctx, a, job); err != nil {
		slog.Debug("Conversion failed",
			logfields.File(job.Input),
			logfields.Format(a.Name()),
			logfields.Error(err))
		r.Errorf("Failed to convert %s: %s", job.Input, describe(err))
		return false
	}

	slog.Debug("Converted file",
		logfields.File(job.Input),
		logfields.Output(job.Output),
		logfields.Format(a.Name()))
	r.Verbosef("Converted %s to %s", job.Input, job.Output)
	return true
}

func describe(err error) string {
	if ce, ok := ferrors.AsClassified(err); ok {
		if ce.Cause() != nil {
			return ce.Message() + ": " + ce.Cause().Error()
		}
		return ce.Message()
	}
	return err.Error()
}
