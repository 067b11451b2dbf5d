package preview

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/griddle/internal/logfields"
)

func newWatcher(root string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	addDirsRecursive(w, root)
	return w, nil
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Unable to watch directory", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// handleEvent reports whether ev should trigger a rebuild. New directories are
// added to the watch list.
func handleEvent(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) || ev.Op == fsnotify.Chmod {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(w, ev.Name)
		}
	}
	slog.Debug("Input change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
	return true
}

// shouldIgnoreEvent matches hidden files and editor scratch files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}

// debouncer coalesces bursts of triggers into a single send on C.
type debouncer struct {
	C     chan struct{}
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{C: make(chan struct{}, 1), delay: delay}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.C <- struct{}{}:
		default:
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
