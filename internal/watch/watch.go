// Package watch reports writes to the file open in the editor that were made
// by some other program.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"hexgrid/internal/logging"
)

const DefaultDebounce = 100 * time.Millisecond

type Change struct {
	Path    string
	Removed bool
}

type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changes  chan Change
	ctx      context.Context
	cancel   context.CancelFunc

	mu         sync.Mutex
	suppressed time.Time
	closeOnce  sync.Once
}

// New watches the directory holding path so that editors replacing the
// file by rename are noticed too.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		changes:  make(chan Change, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	go w.processEvents()
	return w, nil
}

func (w *Watcher) Path() string {
	return w.path
}

// Changes is closed when the watcher is closed.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Suppress ignores events for d. Used around our own saves.
func (w *Watcher) Suppress(d time.Duration) {
	w.mu.Lock()
	w.suppressed = time.Now().Add(d)
	w.mu.Unlock()
}

func (w *Watcher) isSuppressed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Now().Before(w.suppressed)
}

func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.changes)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending Change
	)

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || w.isSuppressed() {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logging.Debugf("watch: %s", event)

			pending = Change{
				Path:    w.path,
				Removed: event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename),
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			select {
			case w.changes <- pending:
			default:
				// A change is already queued; the reader will look at the file anyway.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warnf("watch %s: %v", w.path, err)
		}
	}
}
