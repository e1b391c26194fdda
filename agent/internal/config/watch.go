package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch re-reads the agent configuration whenever the file at path changes
// and hands each successfully parsed result to apply. It blocks until ctx
// is cancelled.
//
// A change that fails to load (bad YAML, failed validation) is rejected
// with a log line and the running settings stay in effect; apply is only
// called with configs that passed validation.
func Watch(ctx context.Context, path string, apply func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("config: watching agent config", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isReload(event) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: rejecting changed file — previous settings stay active",
					"path", path, "err", err)
				continue
			}

			slog.Info("config: applying changed file",
				"path", path, "source_endpoint", cfg.Agent.SourceEndpoint)
			apply(cfg)

			// An atomic save replaces the inode; re-add so the next save
			// is still observed.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watch error", "err", err)
		}
	}
}

// isReload reports whether the event should trigger a reload. Editors that
// save atomically rename a temp file over the target, which arrives as
// Create rather than Write.
func isReload(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
