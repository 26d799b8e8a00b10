package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/autoshot/autoshot/pkg/logger"
	"github.com/autoshot/autoshot/pkg/shotlib"
	"github.com/fsnotify/fsnotify"
)

const settingsDebounce = 200 * time.Millisecond

// watchSettings reloads the YAML file at path whenever it changes and hands
// the result to apply. The parent directory is watched because editors
// usually replace the file instead of writing to it. It returns when ctx
// is cancelled.
func watchSettings(ctx context.Context, path string, l logger.Logger, apply func(shotlib.Configuration) error) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	defer w.Close()
	if err = w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(settingsDebounce)
		case <-debounce.C:
			cfg, err := loadSettingsFile(path)
			if err != nil {
				l.Warning("Ignoring settings file change: %v", err)
				continue
			}
			if err = apply(cfg); err != nil {
				l.Warning("Settings from %s rejected: %v", path, err)
				continue
			}
			l.Info("Settings reloaded from %s", path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.Warning("Settings watcher error: %v", err)
		}
	}
}
