// Package signal coordinates run cancellation through the .taskforge
// directory. Creating a stop file under .taskforge/signals halts the active
// run: a filesystem watcher picks it up immediately, and ShouldStop also
// stats the file directly in case the watcher missed the event.
package signal

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const stopFile = "stop"

// Watcher watches for a stop signal aimed at the active run.
type Watcher struct {
	dir string

	mu   sync.RWMutex
	stop bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a stop-signal watcher rooted at the project's .taskforge
// directory. If the filesystem watcher cannot be set up the Watcher still
// works through the stat fallback in ShouldStop.
func NewWatcher(projectRoot string) (*Watcher, error) {
	dir := filepath.Join(projectRoot, ".taskforge")
	signalsDir := filepath.Join(dir, "signals")
	if err := os.MkdirAll(signalsDir, 0o755); err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:  dir,
		done: make(chan struct{}),
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return w, nil
	}
	if err := fsw.Add(signalsDir); err != nil {
		fsw.Close()
		return w, nil
	}
	w.watcher = fsw

	go w.watchSignals()

	return w, nil
}

// watchSignals monitors the signals directory for the stop file.
func (w *Watcher) watchSignals() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != stopFile {
				continue
			}
			if event.Op&fsnotify.Create != 0 || event.Op&fsnotify.Write != 0 {
				w.mu.Lock()
				w.stop = true
				w.mu.Unlock()
			}
		case <-w.watcher.Errors:
			// Keep watching.
		}
	}
}

// ShouldStop returns true once a stop signal has been received.
func (w *Watcher) ShouldStop() bool {
	if _, err := os.Stat(w.stopPath()); err == nil {
		w.mu.Lock()
		w.stop = true
		w.mu.Unlock()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stop
}

// SendStop creates the stop signal file for the active run.
func (w *Watcher) SendStop() error {
	return os.WriteFile(w.stopPath(), []byte(time.Now().Format(time.RFC3339)), 0o644)
}

// SendStop writes a stop signal into the project's .taskforge directory
// without constructing a watcher. Used by the stop command to reach a run
// started by another process.
func SendStop(projectRoot string) error {
	signalsDir := filepath.Join(projectRoot, ".taskforge", "signals")
	if err := os.MkdirAll(signalsDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(signalsDir, stopFile), []byte(time.Now().Format(time.RFC3339)), 0o644)
}

// Clear removes the stop file and resets the watcher state. Runs call this
// on startup so a stale signal from an earlier run doesn't kill them.
func (w *Watcher) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stop = false
	os.Remove(w.stopPath())
}

// Dir returns the path to the .taskforge directory.
func (w *Watcher) Dir() string {
	return w.dir
}

func (w *Watcher) stopPath() string {
	return filepath.Join(w.dir, "signals", stopFile)
}

// Close shuts down the watcher.
func (w *Watcher) Close() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}
