package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change reports option keys that changed on reload, with the new values.
type Change struct {
	Keys    []string
	Options Options
}

// Watcher reloads the config file when it changes on disk and reports
// option changes. Only Options are hot-reloaded; everything else needs a restart.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  Options
	debounce time.Duration
}

// NewWatcher watches the directory holding path, so that editors replacing
// the file by rename are seen too.
func NewWatcher(path string, current Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fw,
		current:  current,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run delivers changes to onChange until ctx is canceled.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	defer w.watcher.Close()

	var pending <-chan time.Time
	slog.Info("config watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			slog.Info("config watcher stopping")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watcher", "error", err)

		case <-pending:
			pending = nil
			if change, ok := w.reload(); ok {
				onChange(change)
			}
		}
	}
}

// reload re-reads the file. A broken file keeps the current options.
func (w *Watcher) reload() (Change, bool) {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("config reload failed, keeping current options", "error", err)
		return Change{}, false
	}

	keys := w.current.Diff(cfg.Options)
	if len(keys) == 0 {
		return Change{}, false
	}

	slog.Info("config options changed",
		"keys", keys,
		"displayMode", cfg.Options.DisplayMode,
		"clearOnTeleport", cfg.Options.ClearOnTeleport)
	w.current = cfg.Options
	return Change{Keys: keys, Options: cfg.Options}, true
}
