package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/griddle/internal/build"
	"git.home.luguber.info/inful/griddle/internal/console"
	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	"git.home.luguber.info/inful/griddle/internal/logfields"
	"git.home.luguber.info/inful/griddle/internal/metrics"
)

const (
	// MetricsPath serves the Prometheus metrics of every build run by the server.
	MetricsPath = "/_griddle/metrics"
	// StatusPath serves the last build Status as JSON.
	StatusPath = "/_griddle/status"

	shutdownTimeout = 5 * time.Second
)

// Options configure a preview Server.
type Options struct {
	Build    build.Options
	Addr     string
	Debounce time.Duration
}

// Server builds once, serves the output folder and rebuilds on input changes.
type Server struct {
	opts     Options
	reporter *console.Reporter
	recorder *metrics.PrometheusRecorder
	builder  *build.Builder
	status   buildStatus

	buildMu sync.Mutex

	mu       sync.Mutex
	listener net.Listener
}

// New creates a Server. A nil r discards console output.
func New(opts Options, r *console.Reporter) *Server {
	if r == nil {
		r = console.Discard()
	}
	rec := metrics.NewPrometheusRecorder(nil)
	return &Server{
		opts:     opts,
		reporter: r,
		recorder: rec,
		builder:  build.New(opts.Build, r).WithRecorder(rec),
	}
}

// Addr returns the bound listen address once Run has started listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Status returns the outcome of the most recent build.
func (s *Server) Status() Status { return s.status.get() }

// Rebuild runs one full build. Concurrent calls are serialized.
func (s *Server) Rebuild(ctx context.Context) (*build.Report, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	report, err := s.builder.Run(ctx)
	s.status.record(report, err)
	if err != nil {
		slog.Warn("Preview build failed", logfields.Error(err))
		s.reporter.Errorf("Build failed: %v", err)
		return report, err
	}
	s.reporter.Infof("Built %d page(s) in %s", report.Converted, report.Duration.Round(time.Millisecond))
	return report, nil
}

// Handler serves the output folder plus the status and metrics endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, s.recorder.HTTPHandler())
	mux.HandleFunc(StatusPath, s.serveStatus)
	mux.Handle("/", http.FileServer(http.Dir(s.opts.Build.Output)))
	return instrument(mux)
}

func (s *Server) serveStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.status.get()); err != nil {
		slog.Debug("Unable to write status response", logfields.Error(err))
	}
}

// badPaths reports whether err means the input or output folder is unusable,
// in which case there is nothing to watch or serve.
func badPaths(err error) bool {
	return ferrors.HasCategory(err, ferrors.CategoryValidation) || ferrors.HasCategory(err, ferrors.CategoryNotFound)
}

// Run performs the initial build, then serves and watches until ctx is done.
// A failed initial build is reported but does not stop the server.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	if _, err := s.Rebuild(ctx); err != nil && badPaths(err) {
		return err
	}

	watcher, err := newWatcher(s.opts.Build.Input)
	if err != nil {
		return ferrors.InternalError("failed to start file watcher").WithCause(err).Build()
	}
	defer func() { _ = watcher.Close() }()

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to listen").WithContext("addr", s.opts.Addr).Build()
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Preview server listening", logfields.Addr(ln.Addr().String()))
	s.reporter.Successf("Serving %s on http://%s", s.opts.Build.Output, ln.Addr())

	deb := newDebouncer(s.opts.Debounce)
	defer deb.stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-deb.C:
				s.reporter.Verbosef("Change detected, rebuilding")
				_, _ = s.Rebuild(ctx)
			}
		}
	}()

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case err, ok := <-serveErr:
			if ok {
				runErr = ferrors.InternalError("preview server stopped").WithCause(err).Build()
			}
			break loop
		case ev, ok := <-watcher.Events:
			if !ok {
				break loop
			}
			if handleEvent(watcher, ev) {
				deb.trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				break loop
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}

	slog.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Preview server shutdown error", logfields.Error(err))
	}
	stop()
	<-done
	return runErr
}
