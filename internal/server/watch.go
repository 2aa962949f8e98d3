package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog when its file changes, waiting for debounce of
// quiet after the last event so that a file written in several steps is
// loaded once. The parent directory is watched because editors and package
// tools replace the file instead of writing it in place. Watch blocks until
// ctx is cancelled.
func (s *Service) Watch(ctx context.Context, debounce time.Duration) error {
	target, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", s.path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	s.logger.Info("watching catalog file", "path", target, "debounce", debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			s.logger.Info("catalog file changed, reloading", "path", target)
			// Failures are logged and counted by reload; the previous
			// catalog keeps serving.
			s.Reload(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("catalog watcher error", "error", err)
		}
	}
}
