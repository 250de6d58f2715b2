package signal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWatcher_CreatesSignalsDir(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	signalsDir := filepath.Join(root, ".taskforge", "signals")
	if _, err := os.Stat(signalsDir); os.IsNotExist(err) {
		t.Errorf("signals directory not created: %s", signalsDir)
	}
	if w.Dir() != filepath.Join(root, ".taskforge") {
		t.Errorf("Dir() = %q, want %q", w.Dir(), filepath.Join(root, ".taskforge"))
	}
}

func TestShouldStop(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if w.ShouldStop() {
		t.Error("ShouldStop() = true before any signal")
	}

	if err := w.SendStop(); err != nil {
		t.Fatalf("SendStop failed: %v", err)
	}

	// The stat fallback sees the file regardless of watcher timing.
	if !w.ShouldStop() {
		t.Error("ShouldStop() = false after SendStop")
	}
}

func TestClear_ResetsSignal(t *testing.T) {
	root := t.TempDir()

	w, err := NewWatcher(root)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.SendStop(); err != nil {
		t.Fatalf("SendStop failed: %v", err)
	}
	if !w.ShouldStop() {
		t.Fatal("ShouldStop() = false after SendStop")
	}

	w.Clear()

	if w.ShouldStop() {
		t.Error("ShouldStop() = true after Clear")
	}
}

func TestSendStop_WithoutWatcher(t *testing.T) {
	root := t.TempDir()

	if err := SendStop(root); err != nil {
		t.Fatalf("SendStop failed: %v", err)
	}

	// A run's watcher picks up the signal written by another process.
	w, err := NewWatcher(root)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if !w.ShouldStop() {
		t.Error("ShouldStop() = false after an external SendStop")
	}
}

func TestStaleSignalClearedOnNewRun(t *testing.T) {
	root := t.TempDir()

	if err := SendStop(root); err != nil {
		t.Fatalf("SendStop failed: %v", err)
	}

	w, err := NewWatcher(root)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	w.Clear()

	if w.ShouldStop() {
		t.Error("a cleared stale signal should not stop a new run")
	}
}
