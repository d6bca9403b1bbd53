// Package watch re-runs a handler whenever a single file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Handler is invoked after each settled change. Errors are logged and the
// watch continues.
type Handler func(ctx context.Context) error

// Config holds watcher configuration
type Config struct {
	Path     string
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher watches one file by watching its parent directory, so editors
// that replace the file on save are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	fs       *fsnotify.Watcher
}

// New creates a watcher for config.Path.
func New(config Config) (*Watcher, error) {
	if config.Path == "" {
		return nil, errors.New("watch: path is required")
	}
	abs, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", config.Path, err)
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add directory to watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		debounce: config.Debounce,
		logger:   config.Logger,
		fs:       fsw,
	}, nil
}

// Run calls handle after each debounced change until ctx is cancelled. It
// returns nil on cancellation and closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	w.logger.Info("watching for changes", zap.String("path", w.path))
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watch: events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || filepath.Clean(event.Name) != w.path {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logger.Debug("change detected", zap.String("path", w.path))
			if err := handle(ctx); err != nil {
				w.logger.Warn("handler failed", zap.String("path", w.path), zap.Error(err))
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watch: errors channel closed")
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
