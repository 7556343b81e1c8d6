package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"folio/internal/domain"
	"folio/internal/ports"
)

// Options configures a Watcher
type Options struct {
	Ignore []string // doublestar patterns on project-relative paths
	Logger *slog.Logger
}

// Watcher turns filesystem events below the storage root into per-project change notifications.
// Debouncing is left to the notifier.
type Watcher struct {
	root     string
	notifier ports.ChangeNotifier
	ignore   []string
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// New creates a watcher for root that reports to notifier
func New(root string, notifier ports.ChangeNotifier, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		root:     filepath.Clean(root),
		notifier: notifier,
		ignore:   opts.Ignore,
		logger:   opts.Logger,
		watcher:  fw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start adds watches for every project folder and begins processing events
func (w *Watcher) Start() error {
	if err := w.addWatches(w.root); err != nil {
		return fmt.Errorf("failed to add watches starting from %s: %w", w.root, err)
	}

	w.wg.Add(1)
	go w.processEvents()

	w.logger.Debug("file watcher started", slog.String("root", w.root))
	return nil
}

// Stop closes the watcher and waits for the event loop to exit
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		w.wg.Wait()
		w.logger.Debug("file watcher stopped", slog.String("root", w.root))
	})
	return err
}

// addWatches recursively watches dir, skipping hidden, metadata and ignored folders
func (w *Watcher) addWatches(dir string) error {
	visited := make(map[string]bool)
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		real, err := filepath.EvalSymlinks(p)
		if err != nil || visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if p != w.root {
			if _, rel, ok := w.split(p); ok && w.skipped(rel) {
				return filepath.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
		}

		if err := w.watcher.Add(p); err != nil {
			w.logger.Warn("failed to watch folder", slog.String("path", p), slog.Any("error", err))
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", slog.Any("error", err))
		}
	}
}

// split maps an absolute path to its project and the project-relative remainder
func (w *Watcher) split(abs string) (project, rel string, ok bool) {
	r, err := filepath.Rel(w.root, abs)
	if err != nil || r == "." || strings.HasPrefix(r, "..") {
		return "", "", false
	}
	project, rel, _ = strings.Cut(filepath.ToSlash(r), "/")
	return project, rel, true
}

// skipped reports whether a project-relative path never affects the tree or the stats
func (w *Watcher) skipped(rel string) bool {
	if rel == "" {
		return false
	}
	if domain.IsMetaPath(rel) {
		return true
	}
	for _, part := range strings.Split(rel, "/") {
		if domain.IsHidden(part) {
			return true
		}
	}
	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// handleEvent classifies one fsnotify event and forwards it
func (w *Watcher) handleEvent(event fsnotify.Event) {
	project, rel, ok := w.split(event.Name)
	if !ok || domain.IsHidden(project) {
		return
	}

	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}
	if isDir && event.Has(fsnotify.Create) && !w.skipped(rel) {
		if err := w.addWatches(event.Name); err != nil {
			w.logger.Warn("failed to watch new folder", slog.String("path", event.Name), slog.Any("error", err))
		}
	}

	// Changes to the project folder itself are picked up by a project rescan
	if rel == "" || w.skipped(rel) {
		return
	}

	kind, ok := classify(event, rel, isDir)
	if !ok {
		return
	}
	w.logger.Debug("file change", slog.String("project", project), slog.String("path", rel), slog.String("kind", kind.String()))
	w.notifier.Notify(project, kind)
}

// classify maps an event to a change kind; ok is false for events that matter to nobody
func classify(event fsnotify.Event, rel string, isDir bool) (ports.ChangeKind, bool) {
	_, content := domain.NodeTypeForFile(path.Base(rel))

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// Removed entries cannot be stat'ed; anything without a known extension may have been a folder
		if isDir || content || path.Ext(rel) == "" {
			return ports.ChangeStructure, true
		}
	case event.Has(fsnotify.Write):
		if !isDir && domain.IsMarkdown(rel) {
			return ports.ChangeContent, true
		}
	}
	return ports.ChangeContent, false
}
