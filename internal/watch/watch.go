// Package watch signals when the exercise tree of a workspace changes.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AndreyAkinshin/codedrills/internal/exercise"
)

// DefaultDebounce coalesces bursts such as editor save sequences.
const DefaultDebounce = 300 * time.Millisecond

// ErrClosed is returned by operations on a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Watcher recursively watches workspace folders and emits one signal per
// burst of changes.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	debounce time.Duration
	watched  map[string]bool

	changes chan struct{}
	errors  chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New starts watching roots. A non-positive debounce selects DefaultDebounce.
// Missing roots are skipped.
func New(roots []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		watched:  make(map[string]bool),
		changes:  make(chan struct{}, 1),
		errors:   make(chan error, 16),
		closeCh:  make(chan struct{}),
	}
	for _, root := range roots {
		if err := w.addRecursive(root); err != nil && !os.IsNotExist(err) {
			fsw.Close()
			return nil, err
		}
	}

	w.closedWg.Add(1)
	go w.loop()
	return w, nil
}

// Changes delivers a value after each settled burst of changes.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Errors delivers watch errors. Errors are dropped when nobody reads them.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Watched returns the number of watched directories.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	close(w.changes)
	close(w.errors)
	return w.fsw.Close()
}

func ignored(path string, isDir bool) bool {
	return exercise.IsExcludedName(filepath.Base(path), isDir)
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = true
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	return filepath.WalkDir(abs, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != abs && ignored(p, true) {
			return filepath.SkipDir
		}
		if err := w.add(p); err != nil {
			w.sendError(err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.closedWg.Done()

	var settle <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addRecursive(ev.Name)
				}
			}
			settle = time.After(w.debounce)

		case <-settle:
			settle = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	// Removed paths cannot be inspected; treat them as directories.
	info, err := os.Stat(ev.Name)
	isDir := err != nil || info.IsDir()
	return !ignored(ev.Name, isDir)
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
