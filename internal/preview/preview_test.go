package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/griddle/internal/build"
	"git.home.luguber.info/inful/griddle/internal/config"
	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/griddle/internal/testutil/testutils"
)

func newTestServer(t *testing.T, files map[string]string) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(in, 0o755))
	helpers.WriteTree(t, in, files)

	opts := build.OptionsFromConfig(config.Default())
	opts.Input = in
	opts.Output = filepath.Join(root, "site")
	opts.SourceLinks = false
	return New(Options{Build: opts, Addr: "127.0.0.1:0", Debounce: 20 * time.Millisecond}, nil), in
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	assert.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	assert.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	assert.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	assert.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	assert.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestDebouncerCoalesces(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()
	for range 5 {
		d.trigger()
	}

	select {
	case <-d.C:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}
	select {
	case <-d.C:
		t.Fatal("debouncer fired twice for one burst")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandlerServesBuild(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{"guide.md": "# Guide\n"})

	report, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Converted)

	h := s.Handler()

	rec := get(t, h, "/guide.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<h1 id="guide">Guide</h1>`)

	rec = get(t, h, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-url="guide.html"`)

	rec = get(t, h, StatusPath)
	require.Equal(t, http.StatusOK, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 1, st.Converted)
	assert.Equal(t, 1, st.Builds)
	assert.True(t, st.HasGoodBuild)
	assert.Empty(t, st.Error)

	rec = get(t, h, MetricsPath)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "griddle_conversions_total")
}

func TestRebuildRecordsFailure(t *testing.T) {
	s, in := newTestServer(t, nil)
	require.NoError(t, os.RemoveAll(in))

	_, err := s.Rebuild(context.Background())
	require.Error(t, err)
	st := s.Status()
	assert.NotEmpty(t, st.Error)
	assert.False(t, st.HasGoodBuild)
}

func TestRunRejectsMissingInput(t *testing.T) {
	s, in := newTestServer(t, nil)
	require.NoError(t, os.RemoveAll(in))

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, s.Addr())
}

func TestRunRebuildsOnChange(t *testing.T) {
	s, in := newTestServer(t, map[string]string{"guide.md": "# Guide\n"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 5*time.Second, 10*time.Millisecond)
	resp, err := http.Get("http://" + s.Addr() + "/guide.html")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "Guide")

	require.NoError(t, os.WriteFile(filepath.Join(in, "news.md"), []byte("# News\n"), 0o600))
	out := filepath.Join(filepath.Dir(in), "site")
	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "news.html"))
		return err == nil && s.Status().Builds >= 2
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("preview server did not stop")
	}
}

func TestRunReturnsWhenListenerFails(t *testing.T) {
	s, _ := newTestServer(t, map[string]string{"guide.md": "# Guide\n"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.Addr() != "" }, 5*time.Second, 10*time.Millisecond)
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	require.NoError(t, ln.Close())

	select {
	case err := <-errc:
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))
	case <-time.After(10 * time.Second):
		t.Fatal("preview server did not stop after its listener closed")
	}
}

func TestInstrumentRecoversPanics(t *testing.T) {
	h := instrument(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := get(t, h, "/x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
