// Package fsnotify watches a single Python source file for changes using
// github.com/fsnotify/fsnotify. The parent directory is watched rather than
// the file itself — editors replace files on save (write to temp + rename),
// which drops a direct file watch. Rapid events are debounced.
package fsnotify

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file and invokes a callback when it changes.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring filePath. onChange is called with the absolute
// path after each write, create, or rename of that file.
func (w *Watcher) Watch(filePath string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(absPath)
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// Debounce state: editors often trigger multiple writes per save
	var dmu sync.Mutex
	var last time.Time
	const debounceInterval = 50 * time.Millisecond

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if event.Name != absPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) {
					continue
				}

				dmu.Lock()
				now := time.Now()
				if now.Sub(last) < debounceInterval {
					dmu.Unlock()
					continue
				}
				last = now
				dmu.Unlock()

				onChange(absPath)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed — fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
