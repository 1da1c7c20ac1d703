package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/solconf/solconf/internal/ctxlog"
)

// debounceDelay coalesces the burst of filesystem events an editor emits
// for a single save.
const debounceDelay = 150 * time.Millisecond

// Watch resolves once, then re-runs the whole pipeline every time a
// configuration file under watch changes. Failures are logged and
// watching continues; each run uses a fresh engine instance.
func (a *App) Watch(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dirs := append([]string{filepath.Dir(a.config.Path)}, a.config.UnitDirs...)
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	a.logger.Info("Watching for configuration changes.", "dirs", dirs)

	a.runAndReport(ctx)

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigEvent(event) {
				continue
			}
			a.logger.Debug("Configuration changed.", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				pending = timer.C
			} else {
				timer.Reset(debounceDelay)
			}
		case <-pending:
			timer = nil
			pending = nil
			a.runAndReport(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("Watcher failed.", "error", err)
		}
	}
}

// runAndReport runs the pipeline and logs failures instead of returning
// them, keeping the watch loop alive.
func (a *App) runAndReport(ctx context.Context) {
	if err := a.Run(ctx); err != nil {
		a.logger.Error("Resolution failed.", "error", err)
	}
}

// isConfigEvent filters events down to content changes of configuration
// files.
func isConfigEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := filepath.Ext(event.Name)
	return ext == ".yaml" || ext == ".yml" || ext == ".json" || ext == ".jsonc"
}
