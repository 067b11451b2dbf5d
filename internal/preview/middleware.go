package preview

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/griddle/internal/logfields"
)

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument logs every request at debug level and turns handler panics into 500s.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				slog.Error("Preview handler panicked", slog.Any("panic", p), logfields.Path(r.URL.Path))
				http.Error(rec, "internal server error", http.StatusInternalServerError)
			}
			slog.Debug("Served request",
				logfields.Method(r.Method),
				logfields.Path(r.URL.Path),
				logfields.Status(rec.status),
				logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		}()
		next.ServeHTTP(rec, r)
	})
}
