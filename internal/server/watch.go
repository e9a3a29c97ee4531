package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/elizaos/docsite/internal/logfields"
	"github.com/elizaos/docsite/internal/metrics"
)

const rebuildDebounce = 300 * time.Millisecond

// Watcher rebuilds the site when files under the content directory change.
// Events are debounced, and rebuilds are single-flight: changes arriving
// mid-build coalesce into one follow-up build.
type Watcher struct {
	builder  Builder
	recorder metrics.Recorder
	dir      string
}

// NewWatcher creates a watcher over the content directory.
func NewWatcher(contentDir string, builder Builder, recorder metrics.Recorder) *Watcher {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Watcher{builder: builder, recorder: recorder, dir: contentDir}
}

// Run watches until the context ends. Rebuild failures are logged, not fatal:
// the previous output keeps serving.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := addDirsRecursive(fw, w.dir); err != nil {
		return err
	}
	slog.Info("Watching for content changes", logfields.Path(w.dir))

	rebuildReq := make(chan struct{}, 1)
	trigger := newDebouncer(rebuildReq)
	go w.rebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// newDebouncer returns a trigger that forwards at most one request per
// debounce window.
func newDebouncer(rebuildReq chan<- struct{}) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(rebuildDebounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
}

func (w *Watcher) rebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			mu.Lock()
			if running {
				pending = true
				mu.Unlock()
				continue
			}
			running = true
			mu.Unlock()

			w.rebuild(ctx)

			mu.Lock()
			running = false
			if pending {
				pending = false
				mu.Unlock()
				select {
				case rebuildReq <- struct{}{}:
				default:
				}
			} else {
				mu.Unlock()
			}
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	slog.Info("Change detected; rebuilding site")
	w.recorder.IncRebuild("watch")

	record, skipped, err := w.builder.BuildIfChanged(ctx)
	switch {
	case err != nil:
		slog.Warn("Rebuild failed", logfields.Error(err))
	case skipped:
		slog.Debug("Rebuild skipped, content unchanged")
	default:
		slog.Info("Rebuild complete",
			logfields.BuildID(record.BuildID),
			slog.String("outcome", record.Outcome),
			logfields.Count(record.PageCount))
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters events from editor temp and swap files so saves
// do not trigger double rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
