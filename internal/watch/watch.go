// Package watch re-runs the preprocessing pipeline whenever the raw dataset
// file changes.
//
// It watches the file's directory so an upstream export that replaces the
// file via rename (write temp, move into place) is still observed.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last event before
// re-running, coalescing the event bursts a bulk CSV rewrite produces.
const DefaultDebounce = 500 * time.Millisecond

// Options configures the watcher behavior.
type Options struct {
	FilePath string        // Path to the raw dataset file
	Debounce time.Duration // Quiet period before re-running (DefaultDebounce if zero)
	OnChange func() error  // Called after each settled change
	OnError  func(error)   // Called when a re-run fails; nil stops the watcher instead
}

// Watcher monitors a dataset file and triggers reprocessing runs.
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
}

// New creates a new Watcher with the given options.
func New(opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{opts: opts}
}

// Run starts watching. It blocks until the context is cancelled or an
// unrecoverable error occurs.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	w.watcher = watcher

	// Watch the parent directory so rename-into-place is seen.
	dir := filepath.Dir(w.opts.FilePath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(w.opts.FilePath)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if !w.relevant(event, target) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := w.opts.OnChange(); err != nil {
				if w.opts.OnError == nil {
					return err
				}
				w.opts.OnError(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether the event concerns the watched file and should
// schedule a re-run.
func (w *Watcher) relevant(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return true
	case event.Op&fsnotify.Create == fsnotify.Create:
		// Rename-into-place shows up as a create in the parent directory.
		return true
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		return true
	}
	return false
}
