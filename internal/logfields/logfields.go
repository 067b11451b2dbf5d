package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyOutput     = "output"
	KeyFormat     = "format"
	KeyCount      = "count"
	KeyFailed     = "failed"
	KeyDurationMS = "duration_ms"
	KeyRepo       = "repository"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeyStage      = "stage"
	KeyAddr       = "addr"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyOp         = "op"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Format(name string) slog.Attr    { return slog.String(KeyFormat, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Failed(n int) slog.Attr          { return slog.Int(KeyFailed, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Stage(s string) slog.Attr        { return slog.String(KeyStage, s) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Op(op string) slog.Attr          { return slog.String(KeyOp, op) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
