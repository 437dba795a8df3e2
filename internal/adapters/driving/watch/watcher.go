// Package watch rebuilds the search index when note files change on disk,
// so notes edited or synced outside fireforget become searchable.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driven/storage/file"
	"github.com/cardinalphin/fire-and-forget-notes/internal/core/domain"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

const (
	defaultDebounce    = 500 * time.Millisecond
	defaultMinInterval = 2 * time.Second
)

// Rebuilder rebuilds the search index.
type Rebuilder interface {
	Rebuild(ctx context.Context) (domain.IndexStats, error)
}

// Watcher watches a notes tree and triggers debounced, rate-limited
// index rebuilds.
type Watcher struct {
	root      string
	rebuilder Rebuilder
	debounce  time.Duration
	limiter   *rate.Limiter
	ready     chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the tree must be quiet before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithMinInterval sets the minimum time between two rebuilds.
// Zero removes the limit.
func WithMinInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d <= 0 {
			w.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		w.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// New creates a watcher for the notes tree at root.
func New(root string, rebuilder Rebuilder, opts ...Option) *Watcher {
	w := &Watcher{
		root:      root,
		rebuilder: rebuilder,
		debounce:  defaultDebounce,
		limiter:   rate.NewLimiter(rate.Every(defaultMinInterval), 1),
		ready:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once the initial tree is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	if err := os.MkdirAll(w.root, 0700); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}
	if err := addTree(fw, w.root); err != nil {
		return err
	}
	logger.Debug("Watching %s for note changes", w.root)
	close(w.ready)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.handle(fw, event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error: %v", err)

		case <-timer.C:
			if err := w.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			w.rebuild(ctx)
		}
	}
}

// handle reacts to one event and reports whether a rebuild is due.
func (w *Watcher) handle(fw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fw, event.Name); err != nil {
				logger.Warn("Watching %s failed: %v", event.Name, err)
			}
			// Files may have landed before the watch was added.
			return true
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if file.IsNoteFile(event.Name) {
		logger.Debug("Note changed: %s (%s)", event.Name, event.Op)
		return true
	}
	// A removed or renamed folder takes its notes with it.
	if (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && !isHidden(event.Name) &&
		filepath.Ext(event.Name) == "" {
		return true
	}
	return false
}

func (w *Watcher) rebuild(ctx context.Context) {
	stats, err := w.rebuilder.Rebuild(ctx)
	if err != nil {
		logger.Warn("Rebuild after file change failed: %v", err)
		return
	}
	logger.Info("Reindexed %d notes after file change", stats.Notes)
}

// addTree watches dir and every visible directory below it.
func addTree(fw *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch notes tree: %w", err)
	}
	return nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
