package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Watch reloads path whenever it is written or replaced and passes each valid config to
// apply. Invalid edits are logged and skipped. The parent directory is watched so
// editors that save by rename are picked up. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, log Logger, apply func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(abs)
			if err != nil {
				if log != nil {
					log.Warnf("config reload %s: %v", path, err)
				}
				continue
			}
			if log != nil {
				log.Infof("config reloaded from %s", path)
			}
			apply(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if log != nil {
				log.Warnf("config watch: %v", err)
			}
		}
	}
}
