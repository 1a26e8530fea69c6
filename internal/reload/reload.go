package reload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"go-offline-worker/internal/config"
	"go-offline-worker/internal/worker"
)

const defaultDebounce = 250 * time.Millisecond

// Updater swaps the worker onto a new configuration
type Updater interface {
	Origin() string
	Update(ctx context.Context, cfg config.WorkerConfig) (worker.UpdateReport, error)
}

// ErrOriginChanged is logged when a reloaded configuration moves the worker
// to another origin. The host listens for one origin, so that needs a restart.
var ErrOriginChanged = errors.New("worker origin cannot change without a restart")

// Watcher reloads the configuration file when it changes and moves the
// worker to the new version
type Watcher struct {
	path     string
	updater  Updater
	logger   *zap.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the configuration file at path
func NewWatcher(path string, updater Updater, logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		updater:  updater,
		logger:   logger,
		debounce: defaultDebounce,
	}
}

// Run watches until ctx is done. The parent directory is watched so that
// files replaced by rename are still picked up.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	w.logger.Info("Watching configuration for changes", zap.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.Reload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}

// Reload reads the configuration file and applies its worker section.
// A file that fails to load leaves the running worker untouched.
func (w *Watcher) Reload(ctx context.Context) {
	cfg, err := config.LoadConfig(w.path, w.logger)
	if err != nil {
		w.logger.Error("Failed to reload configuration, keeping current worker", zap.Error(err))
		return
	}

	if cfg.Worker.Origin != w.updater.Origin() {
		w.logger.Error("Ignoring reloaded configuration",
			zap.String("origin", cfg.Worker.Origin),
			zap.Error(ErrOriginChanged))
		return
	}

	report, err := w.updater.Update(ctx, cfg.Worker)
	if errors.Is(err, worker.ErrVersionUnchanged) {
		w.logger.Debug("Configuration changed without a version bump", zap.String("version", cfg.Worker.Version))
		return
	}
	if err != nil {
		w.logger.Error("Failed to update worker", zap.String("version", cfg.Worker.Version), zap.Error(err))
		return
	}

	w.logger.Info("Configuration reloaded",
		zap.String("previous", report.Previous),
		zap.String("current", cfg.Worker.Version),
		zap.Int("cached", len(report.Install.Cached)),
		zap.Strings("deleted", report.Activate.Deleted))
}
