package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// DefaultDebounce is how long a path must stay quiet before it is ingested.
const DefaultDebounce = 300 * time.Millisecond

// Watcher ingests files that appear or change in a directory.
type Watcher struct {
	dir      string
	ingester *Ingester
	debounce time.Duration
	scan     bool

	// ready is closed once the directory is being watched.
	ready chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a changed file is ingested.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitialScan ingests files already present when Run starts.
func WithInitialScan() Option {
	return func(w *Watcher) {
		w.scan = true
	}
}

// New creates a watcher for dir.
func New(dir string, ingester *Ingester, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		ingester: ingester,
		debounce: DefaultDebounce,
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once the watcher has subscribed to the directory.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := filepath.Abs(w.dir)
	if err != nil {
		return fmt.Errorf("resolve watch dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	close(w.ready)
	logger.Info("Watching %s for documents", dir)

	if w.scan {
		docs, err := w.ingester.IngestPath(ctx, dir)
		if err != nil {
			logger.Warn("Initial scan of %s: %v", dir, err)
		}
		logger.Info("Initial scan ingested %d documents", len(docs))
	}

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	changed := make(chan string, 16)

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		timers[path] = time.AfterFunc(w.debounce, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()
			select {
			case changed <- path:
			case <-ctx.Done():
			}
		})
	}
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if isHidden(filepath.Base(event.Name)) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
				schedule(event.Name)
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				if err := w.ingester.Remove(ctx, event.Name); err != nil {
					logger.Warn("Removing %s: %v", event.Name, err)
				}
			}

		case path := <-changed:
			w.ingest(ctx, path)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	_, err := w.ingester.IngestFile(ctx, path)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUnsupportedType):
		logger.Debug("Skipping %s: unsupported type", path)
	case errors.Is(err, domain.ErrInvalidInput):
		// Directories and oversized files.
		logger.Debug("Skipping %s: %v", path, err)
	default:
		logger.Warn("Ingesting %s: %v", path, err)
	}
}
