package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestFileWatcher_TriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "exchange:\n  name: Test\n")

	fw, err := NewFileWatcher(&Config{Path: path, DebounceInterval: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var changes atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fw.Watch(ctx, func() error {
			changes.Add(1)
			return nil
		})
	}()

	// Give the watcher time to establish before writing.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "exchange:\n  name: Changed\n")

	deadline := time.After(3 * time.Second)
	for changes.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("change never observed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestFileWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "exchange: {}\n")

	fw, err := NewFileWatcher(&Config{Path: path, DebounceInterval: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fw.Watch(ctx, func() error {
			changes.Add(1)
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "other.yaml"), "unrelated: true\n")
	time.Sleep(200 * time.Millisecond)

	if got := changes.Load(); got != 0 {
		t.Errorf("sibling file change triggered %d callbacks", got)
	}

	cancel()
	<-done
}

func TestFileWatcher_MissingFile(t *testing.T) {
	fw, err := NewFileWatcher(&Config{Path: filepath.Join(t.TempDir(), "absent.yaml")}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer fw.watcher.Close()

	if err := fw.Watch(context.Background(), func() error { return nil }); err == nil {
		t.Error("expected error watching a missing file")
	}
}

func TestNewFileWatcher_RequiresPath(t *testing.T) {
	if _, err := NewFileWatcher(&Config{}, nil); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFileWatcher_ConcurrentStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "exchange: {}\n")

	fw, err := NewFileWatcher(&Config{Path: path, DebounceInterval: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fw.Watch(context.Background(), func() error { return nil })
	}()

	time.Sleep(100 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = fw.Stop()
		}()
	}
	wg.Wait()
	<-done
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int64
	for i := 0; i < 10; i++ {
		d.Trigger(func() { fired.Add(1) })
		time.Sleep(time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("burst fired %d times, want 1", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var fired atomic.Int64
	d.Trigger(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(120 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("stopped debouncer fired %d times", got)
	}

	// A second Stop must not panic on the already-closed channel.
	d.Stop()
}
