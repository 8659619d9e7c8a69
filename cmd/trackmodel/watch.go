package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Faultbox/trackmaker/internal/config"
	"github.com/Faultbox/trackmaker/internal/logger"
	"github.com/Faultbox/trackmaker/internal/model"
)

// Watch model directories and re-assemble on change.
func watchModels(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errNoModels
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newModelWatcher(cfg, ctx.Args())
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching models", zap.Int("count", len(w.paths)), zap.Duration("debounce", w.debounce))
	return w.Run(sigCtx, w.rebuild)
}

// modelWatcher re-assembles a fixed set of models when anything in their
// directories, or in the directories of their materials and textures,
// changes.
type modelWatcher struct {
	cfg      *config.Config
	paths    []string
	dirs     map[string]bool
	debounce time.Duration
	fs       *fsnotify.Watcher
	log      *zap.Logger
}

func newModelWatcher(cfg *config.Config, paths []string) (*modelWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &modelWatcher{
		cfg:      cfg,
		paths:    paths,
		dirs:     make(map[string]bool),
		debounce: time.Duration(cfg.Watch.Debounce),
		fs:       fsWatch,
		log:      logger.Named("watch"),
	}

	for _, p := range paths {
		if err := w.add(filepath.Dir(p)); err != nil {
			fsWatch.Close()
			return nil, err
		}
	}
	return w, nil
}

// add watches dir unless it is already watched.
func (w *modelWatcher) add(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

// watchDependencies extends the watch to the directories holding each
// model's material library and textures. Directories that cannot be watched,
// usually because a reference points nowhere, are skipped.
func (w *modelWatcher) watchDependencies(models []*model.Model) {
	for _, dir := range dependencyDirs(models) {
		if err := w.add(dir); err != nil {
			w.log.Debug("dependency not watched", zap.Error(err))
		}
	}
}

// dependencyDirs lists, without duplicates, the directories of the files a
// model was assembled from besides its geometry file.
func dependencyDirs(models []*model.Model) []string {
	var (
		dirs []string
		seen = make(map[string]bool)
	)
	addDir := func(file string) {
		if file == "" {
			return
		}
		dir := filepath.Dir(file)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, m := range models {
		addDir(m.MaterialLib)
		for _, mesh := range m.Meshes {
			addDir(mesh.TexturePath)
		}
	}
	return dirs
}

// Close stops watching.
func (w *modelWatcher) Close() error {
	return w.fs.Close()
}

// rebuild assembles every model into a fresh session so edited files are
// read again, then follows any newly referenced directories.
func (w *modelWatcher) rebuild() {
	s := newSession(w.cfg)
	models, err := s.resolveAll(w.paths)
	if err != nil {
		w.log.Error("re-assembly failed", zap.Error(err))
	}
	for _, m := range models {
		writeModel(os.Stdout, m)
	}
	w.watchDependencies(models)
}

// Run calls onChange once at start and again after each burst of file
// events has been quiet for the debounce period. It returns when ctx is done
// or the watcher fails.
func (w *modelWatcher) Run(ctx context.Context, onChange func()) error {
	onChange()

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("file changed", zap.String("path", e.Name), zap.String("op", e.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.log.Info("re-assembling models", zap.Int("count", len(w.paths)))
			onChange()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching files: %w", err)

		case <-ctx.Done():
			return nil
		}
	}
}
