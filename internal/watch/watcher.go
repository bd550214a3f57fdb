// Package watch re-runs a function whenever any of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/bbh/internal/log"
)

// Watcher re-runs fn after changes to files.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	fn       func(context.Context) error

	// runs receives the result of every fn call; tests use it to synchronize.
	runs chan error
}

// New creates a Watcher. Directories of the files are watched rather than the
// files themselves so that editors which replace a file by rename are seen.
func New(files []string, debounce time.Duration, fn func(context.Context) error) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files")
	}
	w := &Watcher{files: make(map[string]bool), debounce: debounce, fn: fn}
	seen := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolving %s: %w", f, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Run calls fn once, then again after every burst of changes, until ctx is
// done. fn errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: creating watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: adding %s: %w", dir, err)
		}
	}

	w.call(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debug(log.CatWatch, "input changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.ErrorErr(log.CatWatch, "Watcher error", err)

		case <-fire:
			fire = nil
			w.call(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

func (w *Watcher) call(ctx context.Context) {
	err := w.fn(ctx)
	if err != nil {
		log.ErrorErr(log.CatWatch, "Run failed; waiting for next change", err)
	}
	if w.runs != nil {
		select {
		case w.runs <- err:
		case <-ctx.Done():
		}
	}
}
