package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"folio/internal/ports"
)

// DefaultQuietPeriod is how long a project must stay quiet before its stats are recomputed
const DefaultQuietPeriod = 400 * time.Millisecond

// Scheduler coalesces bursts of file events into one refresh per project.
// Each project has a timer that is reset on every event; when it fires the
// project is queued for a single worker, so refreshes never run concurrently.
// Structural changes run tree sync, baseline sync and stats; content edits run stats only.
type Scheduler struct {
	sync    *Synchronizer
	mutator *Mutator
	stats   *StatsEngine
	quiet   time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]ports.ChangeKind // waiting for their timer
	ready   map[string]ports.ChangeKind // queued for the worker
	stopped bool

	queue     chan string
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	processed func(projectPath string, kind ports.ChangeKind, err error)
}

// Ensure Scheduler can stand in for the synchronous refresher and receive file events
var (
	_ StatsRefresher       = (*Scheduler)(nil)
	_ ports.ChangeNotifier = (*Scheduler)(nil)
)

// NewScheduler creates a scheduler; a zero quiet period means DefaultQuietPeriod
func NewScheduler(synchronizer *Synchronizer, mutator *Mutator, stats *StatsEngine, quiet time.Duration, logger *slog.Logger) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		sync:    synchronizer,
		mutator: mutator,
		stats:   stats,
		quiet:   quiet,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]ports.ChangeKind),
		ready:   make(map[string]ports.ChangeKind),
		queue:   make(chan string, 64),
		done:    make(chan struct{}),
	}
}

// OnProcessed registers a hook called by the worker after each refresh; set it before Start
func (s *Scheduler) OnProcessed(fn func(projectPath string, kind ports.ChangeKind, err error)) {
	s.processed = fn
}

// Notify records an event for a project and restarts its quiet period
func (s *Scheduler) Notify(projectPath string, kind ports.ChangeKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if prev, ok := s.pending[projectPath]; !ok || kind > prev {
		s.pending[projectPath] = kind
	}

	if t, ok := s.timers[projectPath]; ok {
		t.Stop()
	}
	s.timers[projectPath] = time.AfterFunc(s.quiet, func() { s.fire(projectPath) })
}

// Refresh schedules a debounced stats recomputation
func (s *Scheduler) Refresh(_ context.Context, projectPath string) {
	s.Notify(projectPath, ports.ChangeContent)
}

func (s *Scheduler) fire(projectPath string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	kind, ok := s.pending[projectPath]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, projectPath)
	delete(s.timers, projectPath)

	prev, queued := s.ready[projectPath]
	if !queued || kind > prev {
		s.ready[projectPath] = kind
	}
	s.mu.Unlock()

	if queued {
		return
	}
	select {
	case s.queue <- projectPath:
	case <-s.done:
	}
}

// Start launches the worker; it runs until ctx is cancelled or Stop is called
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case projectPath := <-s.queue:
			s.mu.Lock()
			kind := s.ready[projectPath]
			delete(s.ready, projectPath)
			s.mu.Unlock()

			err := s.process(ctx, projectPath, kind)
			if s.processed != nil {
				s.processed(projectPath, kind, err)
			}
		}
	}
}

func (s *Scheduler) process(ctx context.Context, projectPath string, kind ports.ChangeKind) error {
	if kind == ports.ChangeStructure {
		if _, err := s.sync.Sync(ctx, projectPath); err != nil {
			s.logger.Warn("tree sync failed", slog.String("project", projectPath), slog.Any("error", err))
			return err
		}
		if err := s.mutator.SyncStatsBaseline(ctx, projectPath); err != nil {
			s.logger.Warn("stats baseline sync failed", slog.String("project", projectPath), slog.Any("error", err))
		}
	}
	if _, err := s.stats.ComputeAndSave(ctx, projectPath); err != nil {
		s.logger.Warn("stats computation failed", slog.String("project", projectPath), slog.Any("error", err))
		return err
	}
	s.logger.Debug("project refreshed", slog.String("project", projectPath), slog.String("kind", kind.String()))
	return nil
}

// Stop cancels pending timers, drops queued work and waits for the worker to exit
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		for p, t := range s.timers {
			t.Stop()
			delete(s.timers, p)
		}
		s.mu.Unlock()
		close(s.done)
	})
	s.wg.Wait()
}
