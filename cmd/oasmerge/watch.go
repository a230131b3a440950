package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/erraggy/oasmerge/internal/config"
)

// configWatcher re-runs a pipeline whenever the configuration file or one of
// its local inputs changes.
//
// Directories are watched rather than files so that editors which replace a
// file on save (write to a temp file, then rename) are still noticed.
type configWatcher struct {
	watcher  *fsnotify.Watcher
	pipeline *pipeline
	logger   *zap.Logger
	stderr   io.Writer
	debounce time.Duration

	files map[string]struct{} // absolute paths that trigger a merge
	dirs  map[string]struct{} // directories added to the watcher
}

// watch merges once, then again after every debounced change, until ctx is
// done. Failed runs are reported and watching continues.
func watch(ctx context.Context, p *pipeline, debounce time.Duration, stderr io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return &exitError{code: exitConfig, err: fmt.Errorf("failed to create file watcher: %w", err)}
	}
	defer func() { _ = w.Close() }()

	cw := &configWatcher{
		watcher:  w,
		pipeline: p,
		logger:   p.logger,
		stderr:   stderr,
		debounce: debounce,
		dirs:     make(map[string]struct{}),
	}
	cw.runOnce(ctx)
	return cw.loop(ctx)
}

func (cw *configWatcher) runOnce(ctx context.Context) {
	cfg, err := cw.pipeline.run(ctx)
	if err != nil {
		report(cw.stderr, err)
		cw.logger.Warn("merge failed, waiting for changes", zap.Error(err))
	}
	cw.follow(cfg)
	cw.logger.Info("watching for changes", zap.Int("files", len(cw.files)))
}

// follow replaces the set of files that trigger a merge. A nil cfg (the
// configuration could not be loaded) leaves only the configuration file.
func (cw *configWatcher) follow(cfg *config.Configuration) {
	paths := []string{cw.pipeline.configPath}
	if cfg != nil {
		paths = append(paths, cfg.LocalFiles()...)
	}

	cw.files = make(map[string]struct{}, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			cw.logger.Warn("cannot resolve path", zap.String("path", path), zap.Error(err))
			continue
		}
		cw.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := cw.dirs[dir]; ok {
			continue
		}
		if err := cw.watcher.Add(dir); err != nil {
			cw.logger.Warn("cannot watch directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		cw.dirs[dir] = struct{}{}
	}
}

func (cw *configWatcher) loop(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			cw.logger.Info("stopped watching")
			return nil

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if !cw.relevant(event) {
				continue
			}
			cw.logger.Debug("file changed", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			cw.logger.Warn("file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			cw.logger.Info("change detected, merging again")
			cw.runOnce(ctx)
		}
	}
}

func (cw *configWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	_, ok := cw.files[filepath.Clean(event.Name)]
	return ok
}
