// Package watch re-runs generation when input documents change.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
)

// ChangeFunc is called with the inputs that changed since the last call.
// An error is logged; watching continues.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches files for changes and triggers a debounced callback.
// Parent directories are watched rather than the files themselves, so
// editors that save by rename are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
}

// New creates a watcher for the given files
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.NewInvalidRequestError("nothing to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		watcher:  fsw,
		files:    make(map[string]bool),
		debounce: debounce,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
		dirs[dir] = true
	}

	return w, nil
}

// Files returns the watched files in sorted order
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Run monitors file system events until ctx is done, calling onChange once
// per burst of changes. Callbacks run on the Run goroutine, one at a time.
// Run closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.watcher.Close()
	log := logger.Named("watch")

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]bool)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			log.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())

			pending[filepath.Clean(event.Name)] = true
			// Debounce rapid successive writes
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

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for f := range pending {
				changed = append(changed, f)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			log.Infow("Inputs changed",
				logger.FieldCount, len(changed))
			if err := onChange(ctx, changed); err != nil {
				log.Warnw("Change callback error",
					logger.FieldError, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("Watcher error",
				logger.FieldError, err)
		}
	}
}

// relevant reports whether an event touches a watched file's content
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return w.files[filepath.Clean(event.Name)]
}
