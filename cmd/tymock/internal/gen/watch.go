package gen

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/broady/tymock/tymockgen"
)

const debouncePeriod = 300 * time.Millisecond

// watchPaths returns the directories whose changes trigger regeneration:
// the config file's directory, each input's directory and the analyzed
// package directory.
func watchPaths(cfg *tymockgen.Config, configPath string, result *tymockgen.GenerateResult) []string {
	var dirs []string
	add := func(dir string) {
		if dir == "" {
			return
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	if configPath != "" {
		add(filepath.Dir(configPath))
	}
	for _, in := range cfg.Inputs {
		add(filepath.Dir(in))
	}
	if result != nil && result.Schema != nil && len(cfg.Packages) > 0 {
		add(result.Schema.Package.Dir)
	}
	slices.Sort(dirs)
	return dirs
}

// relevant reports whether ev should trigger regeneration. Writes below
// the output directory are ignored so generation does not retrigger itself.
func relevant(ev fsnotify.Event, outDir string) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if outDir != "" {
		if abs, err := filepath.Abs(outDir); err == nil {
			if rel, err := filepath.Rel(abs, ev.Name); err == nil && filepath.IsLocal(rel) {
				return false
			}
		}
	}
	switch filepath.Ext(ev.Name) {
	case ".go", ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

// watch calls regenerate after changes in dirs settle, until ctx is done.
func watch(ctx context.Context, cfg *tymockgen.Config, dirs []string, regenerate func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return errors.Wrapf(err, "watch %s", d)
		}
	}
	cfg.Logger.Info("watching for changes", "dirs", dirs)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, cfg.OutDir) {
				continue
			}
			cfg.Logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debouncePeriod, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			regenerate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cfg.Logger.Warn("watch error", "error", err)
		}
	}
}
