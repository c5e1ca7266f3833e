package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"hfscanner/internal/cache"
	"hfscanner/internal/config"
	"hfscanner/internal/walker"
)

// Watch runs an initial scan and rescans the tree whenever files below the root
// change, after cfg.Runtime.Debounce of quiet. Each rescan writes a fresh report
// to the configured sinks. Watch returns nil when ctx is canceled.
func (e *Engine) Watch(ctx context.Context, cfg *config.Config) error {
	if e.Cache == nil {
		c, err := cache.New(cache.DefaultSize)
		if err != nil {
			return err
		}
		e.Cache = c
	}

	outMgr, err := setupOutputManager(cfg, e.stdout())
	if err != nil {
		return fmt.Errorf("create output sinks: %w", err)
	}
	defer outMgr.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer watcher.Close()

	root := cfg.Targeting.Root
	opts := walkerOptions(cfg)
	dirs, err := walker.Dirs(ctx, root, opts)
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	rescan := func() error {
		report, scanErr := e.Scan(ctx, cfg)
		if report == nil {
			return scanErr
		}
		if ctx.Err() != nil {
			return nil
		}
		e.emit(cfg, outMgr, report)
		if scanErr != nil {
			fmt.Fprintf(e.stderr(), "Error: %v (results are partial)\n", scanErr)
		}
		return nil
	}
	if err := rescan(); err != nil {
		return err
	}
	e.progressf(cfg, "Watching %s for changes (Ctrl+C to stop)...\n", root)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !e.handleEvent(cfg, watcher, ev) {
				continue
			}
			debounce.Reset(cfg.Runtime.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(e.stderr(), "Error: watch: %v\n", err)
		case <-debounce.C:
			e.progressf(cfg, "Change detected, rescanning...\n")
			if err := rescan(); err != nil {
				// The root itself went away.
				if errors.Is(err, os.ErrNotExist) {
					return err
				}
				fmt.Fprintf(e.stderr(), "Error: %v\n", err)
			}
		}
	}
}

// handleEvent updates the watch set and cache for ev and reports whether it
// should trigger a rescan.
func (e *Engine) handleEvent(cfg *config.Config, w *fsnotify.Watcher, ev fsnotify.Event) bool {
	root := cfg.Targeting.Root
	opts := walkerOptions(cfg)
	if walker.Pruned(root, filepath.Dir(ev.Name), opts) {
		return false
	}

	e.verbosef(cfg, "event %s %s\n", ev.Op, ev.Name)
	e.Cache.Remove(ev.Name)

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if walker.Pruned(root, ev.Name, opts) {
				return false
			}
			dirs, err := watchDirs(root, ev.Name, opts)
			if err != nil {
				e.verbosef(cfg, "cannot watch %s: %v\n", ev.Name, err)
			}
			for _, d := range dirs {
				if err := w.Add(d); err != nil {
					e.verbosef(cfg, "cannot watch %s: %v\n", d, err)
				}
			}
		}
	}
	return true
}

// watchDirs lists dir and its subdirectories that are not pruned relative to
// the scan root. Exclude globs are rooted at root, not at dir.
func watchDirs(root, dir string, opts walker.Options) ([]string, error) {
	dirs, err := walker.Dirs(context.Background(), dir, opts)
	kept := dirs[:0]
	for _, d := range dirs {
		if walker.Pruned(root, d, opts) {
			continue
		}
		kept = append(kept, d)
	}
	return kept, err
}
