package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/xcurs/internal/config"
	"github.com/1broseidon/xcurs/internal/xcursor"
)

// themeChain is theme followed by its ancestors in breadth first order,
// then the default theme. Cycles in Inherits are cut.
func themeChain(resolver *xcursor.Resolver, theme string) []string {
	var chain []string
	seen := map[string]bool{}
	queue := []string{theme, xcursor.DefaultTheme}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		chain = append(chain, t)
		queue = append(queue, resolver.Parents(t)...)
	}
	return chain
}

// watchDirs lists the existing directories whose contents decide what
// apply loads: the directories of the config files and, for every theme
// that can supply a cursor, its theme and cursors directories.
func watchDirs(configPath string, res *config.LoadResult, resolver *xcursor.Resolver) []string {
	set := map[string]struct{}{}
	add := func(dir string) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			set[dir] = struct{}{}
		}
	}

	add(filepath.Dir(configPath))
	for _, f := range res.Files {
		add(filepath.Dir(f))
	}

	themes := []string{res.Config.Theme}
	for _, o := range res.Config.Cursors {
		themes = append(themes, o.Theme)
	}
	for _, theme := range themes {
		for _, t := range themeChain(resolver, theme) {
			for _, p := range resolver.Paths() {
				add(filepath.Join(p, t))
				add(filepath.Join(p, t, "cursors"))
			}
		}
	}

	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// configWatcher reapplies the configuration whenever a config file or a
// directory of the configured themes changes. Bursts of events collapse
// into one reload after the configured quiet period.
type configWatcher struct {
	path   string
	logger *slog.Logger
	apply  func(*config.LoadResult) error
	getenv func(string) string

	fsw     *fsnotify.Watcher
	watched map[string]struct{}
}

func newConfigWatcher(path string, logger *slog.Logger, apply func(*config.LoadResult) error) (*configWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &configWatcher{
		path:    path,
		logger:  logger,
		apply:   apply,
		getenv:  os.Getenv,
		fsw:     fsw,
		watched: map[string]struct{}{},
	}, nil
}

func (w *configWatcher) Close() error {
	return w.fsw.Close()
}

// sync points the watcher at the directories res depends on.
func (w *configWatcher) sync(res *config.LoadResult) {
	resolver := xcursor.NewResolver(nil, res.Config.CursorSearchPath(w.getenv))
	want := map[string]struct{}{}
	for _, dir := range watchDirs(w.path, res, resolver) {
		want[dir] = struct{}{}
		if _, ok := w.watched[dir]; ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", dir, "error", err)
			continue
		}
		w.watched[dir] = struct{}{}
	}
	for dir := range w.watched {
		if _, ok := want[dir]; ok {
			continue
		}
		if err := w.fsw.Remove(dir); err != nil {
			w.logger.Debug("cannot unwatch directory", "dir", dir, "error", err)
		}
		delete(w.watched, dir)
	}
	w.logger.Debug("watching", "dirs", len(w.watched))
}

// Run blocks until ctx is done. res is the configuration that was applied
// last.
func (w *configWatcher) Run(ctx context.Context, res *config.LoadResult) error {
	w.sync(res)
	delay := res.Config.Watch

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(delay)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			next, err := config.LoadFromPath(w.path)
			if err != nil {
				w.logger.Warn("config reload failed, keeping the previous one", "error", err)
				continue
			}
			if err := w.apply(next); err != nil {
				w.logger.Error("reapply failed", "error", err)
			}
			res, delay = next, next.Config.Watch
			w.sync(res)
		}
	}
}
