package app

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/adapters/filesystem"
	"folio/internal/adapters/memcache"
	"folio/internal/adapters/sqlite"
	"folio/internal/adapters/watcher"
	"folio/internal/application"
	"folio/internal/config"
	"folio/internal/ports"
)

// App is the wired process: storage, cache and services over one root
type App struct {
	Settings config.Settings
	Storage  *filesystem.Storage
	Services *application.Services

	logger *slog.Logger
	cache  ports.WordCountCache
}

// Open wires the adapters selected by settings
func Open(settings config.Settings, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	storage := filesystem.NewStorage(settings.Root)
	index := filesystem.NewIndex(storage, logger)

	cache, err := openCache(settings, logger)
	if err != nil {
		return nil, err
	}

	services := application.NewServices(storage, index, cache, application.Options{
		Logger: logger,
		Rules:  settings.Rules(),
		Ignore: settings.Ignore,
	})

	return &App{
		Settings: settings,
		Storage:  storage,
		Services: services,
		logger:   logger,
		cache:    cache,
	}, nil
}

func openCache(settings config.Settings, logger *slog.Logger) (ports.WordCountCache, error) {
	switch settings.Cache.Backend {
	case config.CacheNone:
		return nil, nil
	case config.CacheMemory:
		c, err := memcache.New(settings.Cache.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		return c, nil
	default:
		c := sqlite.NewCache()
		if err := c.Open(settings.Root); err != nil {
			// Counting still works without a cache, only slower
			logger.Warn("word count cache unavailable", slog.Any("error", err))
			return nil, nil
		}
		logger.Debug("word count cache opened", slog.String("path", c.Path()))
		return c, nil
	}
}

// Logger returns the process logger
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Watch keeps every project's tree and stats current until ctx is cancelled.
// Mutations made through the services during the watch are debounced too.
// onRefresh, when set, is called after each project refresh.
func (a *App) Watch(ctx context.Context, onRefresh func(projectPath string, kind ports.ChangeKind, err error)) error {
	svc := a.Services
	sched := application.NewScheduler(svc.Sync, svc.Mutator, svc.Stats, a.Settings.Debounce(), a.logger)
	if onRefresh != nil {
		sched.OnProcessed(onRefresh)
	}

	w, err := watcher.New(a.Storage.Root(), sched, watcher.Options{
		Ignore: a.Settings.Ignore,
		Logger: a.logger,
	})
	if err != nil {
		return err
	}

	sched.Start(ctx)
	defer sched.Stop()

	svc.Mutator.SetRefresher(sched)
	defer svc.Mutator.SetRefresher(nil)

	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	for _, p := range svc.Workspace.Refresh(ctx) {
		sched.Notify(p.Path, ports.ChangeStructure)
	}

	<-ctx.Done()
	return nil
}

// Close releases the cache
func (a *App) Close() error {
	if a.cache == nil {
		return nil
	}
	if err := a.cache.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	return nil
}
