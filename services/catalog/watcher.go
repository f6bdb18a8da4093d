package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/upb/llm-model-router/internal/observability"
	"go.uber.org/zap"
)

// Watcher reloads a catalog file into a Store when the file changes.
// A file that fails to parse or validate is logged and ignored; the
// previously published catalog keeps serving.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	store     *Store
	path      string
	logger    *zap.Logger
	metrics   *observability.Metrics

	// debounceDelay coalesces bursts of events from editors and atomic renames
	debounceDelay time.Duration

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatcherConfig configures the catalog watcher.
type WatcherConfig struct {
	Store         *Store
	Path          string
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	DebounceDelay time.Duration
}

// NewWatcher starts watching the directory that holds cfg.Path.
// Watching the directory rather than the file survives editors that replace the file.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path %s: %w", cfg.Path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	debounce := cfg.DebounceDelay
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		fsWatcher:     fsWatcher,
		store:         cfg.Store,
		path:          absPath,
		logger:        logger,
		metrics:       cfg.Metrics,
		debounceDelay: debounce,
		ctx:           ctx,
		cancel:        cancel,
	}

	w.wg.Add(1)
	go w.processEvents()

	logger.Info("watching catalog file", zap.String("path", absPath))
	return w, nil
}

// Close stops the watcher and waits for the event loop to exit
func (w *Watcher) Close() error {
	w.cancel()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsWatcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}

	next, err := w.store.ReloadFile(w.path)
	if err != nil {
		w.metrics.RecordCatalogReload(observability.ReloadFailed, 0)
		w.logger.Error("catalog reload failed, keeping previous catalog",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}

	w.metrics.RecordCatalogReload(observability.ReloadSucceeded, next.Len())
	w.logger.Info("catalog reloaded",
		zap.String("path", w.path),
		zap.Int("candidates", next.Len()),
		zap.Uint64("version", w.store.Version()))
}
