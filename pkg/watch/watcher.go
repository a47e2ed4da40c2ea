package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config contains configuration for the file watcher.
type Config struct {
	// Path is the configuration file to watch.
	Path string

	// DebounceInterval is the quiet period before a change triggers a
	// revalidation (default: 100ms). Editors that write via temp file
	// and rename fire several events per save.
	DebounceInterval time.Duration
}

// DefaultConfig returns the default watcher configuration for a path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:             path,
		DebounceInterval: 100 * time.Millisecond,
	}
}

// FileWatcher watches a single configuration file and triggers a
// callback when it changes.
//
// The watch is placed on the file's directory rather than the file
// itself: most editors save by writing a temp file and renaming it over
// the original, which would silently drop an inode-level watch.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *Config
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileWatcher creates a watcher for the configured file.
func NewFileWatcher(config *Config, logger *slog.Logger) (*FileWatcher, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("watch path is required")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "watch"),
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks, invoking onChange after each debounced change to the
// watched file, until the context is cancelled or Stop is called.
func (fw *FileWatcher) Watch(ctx context.Context, onChange func() error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	abs, err := filepath.Abs(fw.config.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.config.Path, err)
	}
	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch directory of %s: %w", fw.config.Path, err)
	}

	fw.logger.Info("watching configuration file",
		"path", fw.config.Path,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped", "reason", "context cancelled")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !fw.isTargetEvent(event, abs) {
				continue
			}

			fw.logger.Debug("file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			fw.debounce.Trigger(func() {
				fw.logger.Info("configuration changed, revalidating",
					"path", fw.config.Path,
				)
				if err := onChange(); err != nil {
					fw.logger.Error("revalidation failed", "error", err)
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching through transient errors.
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and cancels any pending debounced callback.
// Safe to call more than once; later calls return immediately.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running || fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	fw.mu.Unlock()

	close(fw.stopCh)
	<-fw.doneCh

	fw.debounce.Stop()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// isTargetEvent reports whether the event concerns the watched file
// with an operation worth acting on.
func (fw *FileWatcher) isTargetEvent(event fsnotify.Event, abs string) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == abs
}
