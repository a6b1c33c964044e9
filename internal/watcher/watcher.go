// Package watcher reports debounced changes to the board's store so a running
// TUI or `board --watch` can pick up writes made by other processes.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the events of one save (temp create, write,
// rename) into a single notification.
const debounceDelay = 100 * time.Millisecond

// Watcher calls onChange once the store directory has been quiet for the
// debounce delay after a relevant event.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func()
	delay    time.Duration
}

// New watches every directory in dirs.
func New(dirs []string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return &Watcher{fsw: fsw, onChange: onChange, delay: debounceDelay}, nil
}

// Run blocks until ctx is done or the watcher is closed. onErr, if set,
// receives errors from the underlying notifier.
func (w *Watcher) Run(ctx context.Context, onErr func(error)) {
	quiet := time.NewTimer(w.delay)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if relevant(ev) {
				quiet.Reset(w.delay)
			}
		case <-quiet.C:
			w.onChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if onErr != nil {
				onErr(err)
			}
		}
	}
}

// relevant reports whether ev touched a stored value. Lock files, temp files
// and the log and journal files are ignored.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	switch {
	case strings.HasPrefix(base, "."):
		return false
	case filepath.Ext(base) == ".tmp", filepath.Ext(base) == ".log", filepath.Ext(base) == ".jsonl":
		return false
	}
	return true
}

// Close releases the notifier; a running Run returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
