// ABOUTME: fsnotify-based config watcher; same Start/Stop/ForceCheck surface as a polling watcher
// ABOUTME: Reloads Settings and notifies the caller when the file or its directory changes

package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a settings file for changes using the OS's native
// file notification mechanism and calls onChange with the freshly
// loaded Settings whenever the file is written or replaced.
type Watcher struct {
	path     string
	onChange func(Settings)

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	stopOnce sync.Once
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for path. onChange is invoked from the
// watcher's goroutine, not the caller's.
func NewWatcher(path string, onChange func(Settings)) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// Start begins watching in a goroutine. Safe to call multiple times;
// subsequent calls are no-ops. Errors establishing the watch are
// swallowed: a config watcher failing to start should not prevent the
// editor from starting with its already-loaded Settings.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return
	}
	// Watch the containing directory rather than the file itself: editors
	// commonly replace a config file via rename-over, which drops the
	// original inode's watch before the fsnotify event for it can deliver.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		w.mu.Unlock()
		return
	}

	w.watcher = fw
	w.running = true
	w.mu.Unlock()

	go w.loop(fw)
}

// Stop halts the watcher. Safe to call multiple times and concurrently.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.running = false
		fw := w.watcher
		w.mu.Unlock()
		if fw != nil {
			fw.Close()
		}
		close(w.stopCh)
	})
}

// ForceCheck reloads the settings file immediately, outside of any
// filesystem event, and invokes onChange with the result.
func (w *Watcher) ForceCheck() {
	s, err := Load(w.path)
	if err != nil {
		return
	}
	w.onChange(s)
}

func (w *Watcher) loop(fw *fsnotify.Watcher) {
	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s, err := Load(w.path)
			if err != nil {
				continue
			}
			w.onChange(s)
		case _, ok := <-fw.Errors:
			if !ok {
				return
			}
		}
	}
}
