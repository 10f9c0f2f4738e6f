// Package watch monitors a protocols directory for script changes.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher emits the path of each .ep file written or created under dir,
// debouncing rapid saves of the same file. Events are delivered on Events
// until Stop is called.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
	last     map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}

	Events chan string
}

// New creates a watcher for dir. Start must be called before events flow.
func New(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		dir:      dir,
		debounce: 300 * time.Millisecond,
		last:     make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		Events:   make(chan string, 16),
	}, nil
}

// Start watches the directory and begins the event loop. On failure the
// underlying watcher is closed; the Watcher is not reusable.
func (w *Watcher) Start() error {
	if err := w.fsw.Add(w.dir); err != nil {
		w.fsw.Close()
		return err
	}
	go w.run()
	return nil
}

// Stop ends the event loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			now := time.Now()
			if prev, seen := w.last[event.Name]; seen && now.Sub(prev) < w.debounce {
				continue
			}
			w.last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.stopCh:
				return
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Ext(event.Name) == ".ep"
}
