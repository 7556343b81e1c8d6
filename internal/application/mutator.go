package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"

	"folio/internal/domain"
	"folio/internal/ports"
)

// Position says where a dragged node lands relative to its target
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	PositionInside Position = "inside"
)

// ParsePosition parses before, after or inside
func ParsePosition(s string) (Position, error) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case PositionBefore, PositionAfter, PositionInside:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (want before, after or inside)", ErrInvalidPosition, s)
}

// StatsRefresher is asked to recompute a project's stats after an inclusion change
type StatsRefresher interface {
	Refresh(ctx context.Context, projectPath string)
}

// Mutator applies user edits to a project tree and keeps files and config in step
type Mutator struct {
	storage   ports.Storage
	configs   *ConfigStore
	stats     *StatsEngine
	cache     ports.WordCountCache
	opts      Options

	mu        sync.RWMutex
	refresher StatsRefresher
}

// NewMutator creates a mutator; stats refreshes run synchronously until SetRefresher is called
func NewMutator(storage ports.Storage, configs *ConfigStore, stats *StatsEngine, cache ports.WordCountCache, opts Options) *Mutator {
	m := &Mutator{
		storage: storage,
		configs: configs,
		stats:   stats,
		cache:   cache,
		opts:    opts.withDefaults(),
	}
	m.refresher = immediateRefresher{stats: stats, logger: m.opts.Logger}
	return m
}

// SetRefresher replaces the stats refresher, e.g. with a debouncing scheduler.
// nil restores synchronous recomputation.
func (m *Mutator) SetRefresher(r StatsRefresher) {
	if r == nil {
		r = immediateRefresher{stats: m.stats, logger: m.opts.Logger}
	}
	m.mu.Lock()
	m.refresher = r
	m.mu.Unlock()
}

func (m *Mutator) refresh(ctx context.Context, projectPath string) {
	m.mu.RLock()
	r := m.refresher
	m.mu.RUnlock()
	r.Refresh(ctx, projectPath)
}

func (m *Mutator) loadTree(ctx context.Context, projectPath string) (*domain.ConfigDocument, error) {
	doc, err := m.configs.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("project config for %s: %w", projectPath, ErrNotFound)
	}
	return doc, nil
}

// Reorder moves draggedID before, after or inside targetID.
// A node that changes folder is moved on disk first; if that fails nothing is persisted.
func (m *Mutator) Reorder(ctx context.Context, projectPath, draggedID, targetID string, pos Position) error {
	if draggedID == targetID {
		return fmt.Errorf("%w: cannot drop a node onto itself", ErrInvalidOperation)
	}
	doc, err := m.loadTree(ctx, projectPath)
	if err != nil {
		return err
	}
	tree := doc.Structure.Tree

	dragged, ok := domain.Locate(&tree, draggedID)
	if !ok {
		return fmt.Errorf("node %s: %w", draggedID, ErrNotFound)
	}
	target, ok := domain.Locate(&tree, targetID)
	if !ok {
		return fmt.Errorf("node %s: %w", targetID, ErrNotFound)
	}
	if dragged.Node.Contains(targetID) {
		return fmt.Errorf("%w: cannot move %s into its own subtree", ErrInvalidOperation, dragged.Node.Path)
	}

	inside := pos == PositionInside && target.Node.IsGroup()
	if pos == PositionInside && !inside {
		pos = PositionAfter
	}

	newDir := domain.ParentDir(target.Node.Path)
	if inside {
		newDir = target.Node.Path
	}

	oldPath := dragged.Node.Path
	moved := false
	if newDir != domain.ParentDir(oldPath) {
		newPath := path.Join(newDir, path.Base(oldPath))
		if err := m.move(ctx, projectPath, oldPath, newPath); err != nil {
			return err
		}
		dragged.Node.Rebase(newPath)
		moved = true
	}

	now := m.opts.Now()
	dragged.Detach()
	if inside {
		target.Node.Children = append(target.Node.Children, dragged.Node)
		target.Node.IsExpanded = true
	} else {
		// Indexes shift once the dragged node is detached
		target, _ = domain.Locate(&tree, targetID)
		at := target.Index
		if pos == PositionAfter {
			at++
		}
		*target.Siblings = slices.Insert(*target.Siblings, at, dragged.Node)
	}
	dragged.Node.LastModified = now
	domain.Renumber(tree, now)

	if err := m.configs.Save(ctx, projectPath, domain.TreePatch(tree)); err != nil {
		if moved {
			m.undoMove(ctx, projectPath, dragged.Node.Path, oldPath)
		}
		return fmt.Errorf("failed to save tree: %w", err)
	}

	if moved {
		m.renameCached(projectPath, oldPath, dragged.Node.Path)
		if err := m.SyncStatsBaseline(ctx, projectPath); err != nil {
			m.opts.Logger.Warn("stats baseline sync failed", slog.String("project", projectPath), slog.Any("error", err))
		}
		m.refresh(ctx, projectPath)
	}
	return nil
}

func (m *Mutator) move(ctx context.Context, projectPath, from, to string) error {
	src := path.Join(projectPath, from)
	dst := path.Join(projectPath, to)

	exists, err := m.storage.Exists(ctx, dst)
	if err != nil {
		return &MoveError{Source: from, Dest: to, Reason: "cannot check destination", Err: err}
	}
	if exists {
		return &MoveError{Source: from, Dest: to, Reason: "destination already exists", Err: fs.ErrExist}
	}
	if err := m.storage.Rename(ctx, src, dst); err != nil {
		return &MoveError{Source: from, Dest: to, Reason: "rename failed", Err: err}
	}
	m.opts.Logger.Info("moved", slog.String("project", projectPath), slog.String("from", from), slog.String("to", to))
	return nil
}

func (m *Mutator) undoMove(ctx context.Context, projectPath, from, to string) {
	if err := m.storage.Rename(ctx, path.Join(projectPath, from), path.Join(projectPath, to)); err != nil {
		m.opts.Logger.Error("failed to undo move after save failure",
			slog.String("project", projectPath), slog.String("path", from), slog.Any("error", err))
	}
}

func (m *Mutator) renameCached(projectPath, from, to string) {
	if m.cache == nil {
		return
	}
	tx, err := m.cache.BeginTx()
	if err != nil {
		m.opts.Logger.Debug("word count cache unavailable", slog.Any("error", err))
		return
	}
	if err := tx.RenamePrefix(path.Join(projectPath, from), path.Join(projectPath, to)); err != nil {
		_ = tx.Rollback()
		m.opts.Logger.Debug("word count cache rename failed", slog.Any("error", err))
		return
	}
	if err := tx.Commit(); err != nil {
		m.opts.Logger.Debug("word count cache commit failed", slog.Any("error", err))
	}
}

// updateNode applies fn to the node at relPath and persists the tree
func (m *Mutator) updateNode(ctx context.Context, projectPath, relPath string, fn func(*domain.Node) error) error {
	doc, err := m.loadTree(ctx, projectPath)
	if err != nil {
		return err
	}
	node := domain.FindByPath(doc.Structure.Tree, path.Clean(relPath))
	if node == nil {
		return fmt.Errorf("node %s: %w", relPath, ErrNotFound)
	}
	if err := fn(node); err != nil {
		return err
	}
	node.LastModified = m.opts.Now()
	return m.configs.Save(ctx, projectPath, domain.TreePatch(doc.Structure.Tree))
}

// SetInclusion sets or clears the manual include/exclude flags of a node and refreshes the stats
func (m *Mutator) SetInclusion(ctx context.Context, projectPath, relPath string, o domain.InclusionOverride) error {
	o = o.Normalize()
	err := m.updateNode(ctx, projectPath, relPath, func(n *domain.Node) error {
		n.Include = o.Include
		n.Exclude = o.Exclude
		return nil
	})
	if err != nil {
		return err
	}
	if err := m.SyncStatsBaseline(ctx, projectPath); err != nil {
		m.opts.Logger.Warn("stats baseline sync failed", slog.String("project", projectPath), slog.Any("error", err))
	}
	m.refresh(ctx, projectPath)
	return nil
}

// SetCompleted marks a node as done; stats are unaffected
func (m *Mutator) SetCompleted(ctx context.Context, projectPath, relPath string, completed bool) error {
	return m.updateNode(ctx, projectPath, relPath, func(n *domain.Node) error {
		n.Completed = completed
		return nil
	})
}

// SetExpanded persists the folder expansion state shown by the UI
func (m *Mutator) SetExpanded(ctx context.Context, projectPath, relPath string, expanded bool) error {
	return m.updateNode(ctx, projectPath, relPath, func(n *domain.Node) error {
		if !n.IsGroup() {
			return fmt.Errorf("%w: %s is not a folder", ErrInvalidOperation, relPath)
		}
		n.IsExpanded = expanded
		return nil
	})
}

// SyncStatsBaseline makes stats.per_chapter hold exactly the countable files,
// adding new ones at 0 and dropping stale ones, without reading any content.
func (m *Mutator) SyncStatsBaseline(ctx context.Context, projectPath string) error {
	doc, err := m.configs.Load(ctx, projectPath)
	if err != nil {
		return err
	}
	files, err := m.stats.countable(ctx, projectPath, doc)
	if err != nil {
		return err
	}

	previous := map[string]int{}
	if doc != nil {
		previous = doc.Stats.PerChapter
	}
	perChapter := make(map[string]int, len(files))
	for _, f := range files {
		perChapter[f] = previous[f]
	}

	patch := domain.Patch{"stats": map[string]any{"per_chapter": perChapter}}
	return m.configs.Save(ctx, projectPath, patch, "stats.per_chapter")
}

// immediateRefresher recomputes stats in the caller's goroutine
type immediateRefresher struct {
	stats  *StatsEngine
	logger *slog.Logger
}

func (r immediateRefresher) Refresh(ctx context.Context, projectPath string) {
	if _, err := r.stats.ComputeAndSave(ctx, projectPath); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Warn("stats refresh failed", slog.String("project", projectPath), slog.Any("error", err))
	}
}
