package bindings

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/jsbind/config"
	"github.com/teranos/jsbind/errors"
	"github.com/teranos/jsbind/header"
	"github.com/teranos/jsbind/logger"
	"github.com/teranos/jsbind/manifest"
	"github.com/teranos/jsbind/module"
)

// RunCallback is called after every regeneration with its outcome.
type RunCallback func(*manifest.Manifest, error)

// Watcher regenerates when a module descriptor or bound header changes.
type Watcher struct {
	cfg            *config.Config
	parser         *header.Parser
	watcher        *fsnotify.Watcher
	debouncePeriod time.Duration
	callbacks      []RunCallback
	watched        map[string]bool

	mu            sync.Mutex // guards debounceTimer, callbacks and watched
	debounceTimer *time.Timer
	runMu         sync.Mutex // one generation at a time

	logger *zap.SugaredLogger
}

// NewWatcher creates a watcher on the modules directory and every directory
// holding a bound header.
func NewWatcher(cfg *config.Config) (*Watcher, error) {
	parser, err := newParser(cfg)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		cfg:            cfg,
		parser:         parser,
		watcher:        fw,
		debouncePeriod: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		watched:        make(map[string]bool),
		logger:         logger.ComponentLogger("watch"),
	}
	if err := w.addDir(cfg.ModulesDir()); err != nil {
		fw.Close()
		return nil, err
	}
	w.refresh()
	return w, nil
}

// OnRun registers a callback for regeneration results
func (w *Watcher) OnRun(callback RunCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Dirs returns the watched directories, sorted
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.watched))
	for d := range w.watched {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	w.watched[dir] = true
	w.logger.Debugw("Watching directory", logger.FieldDir, dir)
	return nil
}

// refresh adds the directories of the headers the current descriptors
// declare, found the way the parser finds them. Descriptors that fail to load
// and headers that cannot be found are left to the next run to report.
func (w *Watcher) refresh() {
	modules, err := module.LoadSet(w.cfg.Root, w.cfg.ModulesDir(), w.cfg.Modules.Index)
	if err != nil {
		return
	}
	for _, m := range modules {
		for _, h := range m.Headers {
			path, err := w.parser.Locate(h)
			if err != nil {
				continue
			}
			dir := filepath.Dir(path)
			if err := w.addDir(dir); err != nil {
				w.logger.Warnw("Cannot watch header directory", logger.FieldDir, dir, logger.FieldError, err)
			}
		}
		for _, src := range m.Sources {
			dir := w.cfg.Resolve(filepath.FromSlash(src))
			if err := w.addDir(dir); err != nil {
				w.logger.Warnw("Cannot watch source directory", logger.FieldDir, dir, logger.FieldError, err)
			}
		}
	}
}

// Start watches until ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

// relevant reports whether a changed file can affect the output
func relevant(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch filepath.Ext(base) {
	case ".h", ".hpp", ".json":
		return true
	}
	return false
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.mu.Unlock()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !relevant(event.Name) {
				continue
			}
			w.logger.Infow("Detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.scheduleRun(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// scheduleRun debounces bursts of changes into one regeneration
func (w *Watcher) scheduleRun(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		w.Run(ctx)
	})
}

// Run regenerates once and notifies callbacks. A failed run is logged and
// leaves the watcher running.
func (w *Watcher) Run(ctx context.Context) (*manifest.Manifest, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	start := time.Now()
	m, err := Generate(ctx, w.cfg, w.cfg.Root)
	if err != nil {
		w.logger.Errorw("Regeneration failed",
			logger.FieldError, err,
			"category", errors.Category(err))
	} else {
		w.logger.Infow("Regenerated", logger.Elapsed(start,
			logger.FieldCount, len(m.Files))...)
		w.refresh()
	}

	w.mu.Lock()
	callbacks := make([]RunCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, callback := range callbacks {
		callback(m, err)
	}
	return m, err
}

// Stop stops watching
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
