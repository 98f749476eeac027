// Package watch reports debounced batches of file changes in a set of
// directories.
package watch

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors directories and emits the set of changed paths once no
// further matching event has arrived for the debounce period.
type Watcher struct {
	Changes <-chan []string // Read-only external channel

	changes  chan []string
	done     chan struct{}
	dirs     []string
	match    func(path string) bool
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a watcher over dirs. Only paths for which match returns true
// are reported; a nil match accepts everything.
func New(debounce time.Duration, match func(path string) bool, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	// One slot: a pending batch already guarantees the consumer re-runs.
	ch := make(chan []string, 1)
	return &Watcher{
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		dirs:     dirs,
		match:    match,
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Start registers the directories and begins watching. On error the
// watcher is released and Stop may still be called.
func (w *Watcher) Start() error {
	if err := w.addDirs(); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}

	go w.loop()
	return nil
}

func (w *Watcher) addDirs() error {
	seen := make(map[string]bool)
	for _, d := range w.dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return err
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		if err := w.watcher.Add(abs); err != nil {
			return err
		}
	}
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]bool)
	var last time.Time
	ticker := time.NewTicker(max(w.debounce/4, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.match(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = true
				last = time.Now()
			}

		case <-ticker.C:
			if len(pending) == 0 || time.Since(last) < w.debounce {
				continue
			}
			w.emit(pending)
			pending = make(map[string]bool)

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event still triggers a run.
		}
	}
}

func (w *Watcher) emit(pending map[string]bool) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	select {
	case w.changes <- paths:
	default:
		// A batch is already queued; the consumer will re-run anyway.
	}
}
