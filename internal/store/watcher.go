package store

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"camshot/internal/errs"
	"camshot/internal/log"
)

// Watcher monitors a store's directory with fsnotify and invalidates the
// cached save index when image files appear or disappear behind the
// application's back (for example when photos are pulled off over USB).
type Watcher struct {
	store     *Store
	fsWatcher *fsnotify.Watcher

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewWatcher creates a watcher for the store's directory
func NewWatcher(s *Store) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(err, "creating fsnotify watcher")
	}
	return &Watcher{
		store:     s,
		fsWatcher: fsWatcher,
		stopChan:  make(chan struct{}),
	}, nil
}

// Start begins watching. The directory must already exist.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errs.New("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsWatcher.Add(w.store.Dir()); err != nil {
		return errs.NewStorageError("watching storage directory", w.store.Dir(), errs.StorageScanFailed, err)
	}
	log.WithFields(log.F("directory", w.store.Dir())).Info("watching storage directory")

	go func() {
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}
				w.handle(event)
			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.Warnf("storage watcher: %v", err)
			case <-w.stopChan:
				return
			}
		}
	}()
	return nil
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !filePattern.Match(filepath.Base(event.Name)) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	log.Debugf("storage changed externally: %s %s", event.Op, event.Name)
	w.store.Invalidate()
}

// Stop ends the watch loop and releases the fsnotify watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopChan)
	return w.fsWatcher.Close()
}
