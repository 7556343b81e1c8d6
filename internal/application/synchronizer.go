package application

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"folio/internal/domain"
	"folio/internal/ports"
)

// SyncResult reports what a tree sync changed
type SyncResult struct {
	Tree      []*domain.Node
	Added     int
	Removed   int
	Persisted bool
}

// Synchronizer rebuilds a project's editorial tree from the files on disk,
// keeping id, title, order and flags of nodes whose path did not change.
type Synchronizer struct {
	storage ports.Storage
	configs *ConfigStore
	opts    Options
}

// NewSynchronizer creates a synchronizer
func NewSynchronizer(storage ports.Storage, configs *ConfigStore, opts Options) *Synchronizer {
	return &Synchronizer{storage: storage, configs: configs, opts: opts.withDefaults()}
}

// BuildTree returns the tree for the current filesystem layout without persisting it.
// Errors are logged and yield an empty tree.
func (s *Synchronizer) BuildTree(ctx context.Context, projectPath string) []*domain.Node {
	doc, err := s.configs.Load(ctx, projectPath)
	if err != nil {
		s.opts.Logger.Warn("failed to load project config", slog.String("project", projectPath), slog.Any("error", err))
	}
	var prev []*domain.Node
	if doc != nil {
		prev = doc.Structure.Tree
	}

	tree, err := s.build(ctx, projectPath, prev)
	if err != nil {
		s.opts.Logger.Warn("failed to build tree", slog.String("project", projectPath), slog.Any("error", err))
		return []*domain.Node{}
	}
	return tree
}

func (s *Synchronizer) build(ctx context.Context, projectPath string, prev []*domain.Node) ([]*domain.Node, error) {
	existing := domain.IndexByPath(prev)
	return s.walk(ctx, projectPath, "", existing, s.opts.Now())
}

// walk builds the sibling list for the project-relative directory dir
func (s *Synchronizer) walk(ctx context.Context, projectPath, dir string, existing map[string]*domain.Node, now time.Time) ([]*domain.Node, error) {
	entries, err := s.storage.List(ctx, path.Join(projectPath, dir))
	if err != nil {
		return nil, err
	}

	nodes := make([]*domain.Node, 0, len(entries))
	for _, e := range entries {
		rel := path.Join(dir, e.Name)
		if !s.isContent(e, rel) {
			continue
		}

		if e.IsDir {
			children, err := s.walk(ctx, projectPath, rel, existing, now)
			if err != nil {
				return nil, err
			}
			node := s.resolve(existing, domain.NodeGroup, rel, now)
			node.Children = children
			nodes = append(nodes, node)
			continue
		}

		typ, _ := domain.NodeTypeForFile(e.Name)
		nodes = append(nodes, s.resolve(existing, typ, rel, now))
	}

	domain.OrderSiblings(nodes)
	return nodes, nil
}

// isContent reports whether a listed entry belongs in the editorial tree
func (s *Synchronizer) isContent(e ports.Entry, rel string) bool {
	if domain.IsHidden(e.Name) || domain.IsMetaPath(rel) || s.opts.Ignored(rel) {
		return false
	}
	if e.IsDir {
		return true
	}
	_, ok := domain.NodeTypeForFile(e.Name)
	return ok
}

// resolve reuses the previous node at rel or creates a new one
func (s *Synchronizer) resolve(existing map[string]*domain.Node, typ domain.NodeType, rel string, now time.Time) *domain.Node {
	prev, ok := existing[rel]
	if !ok {
		return domain.NewNode(typ, rel, now)
	}

	node := &domain.Node{
		ID:           prev.ID,
		Title:        prev.Title,
		Type:         typ,
		Path:         rel,
		Order:        prev.Order,
		Exclude:      prev.Exclude,
		Include:      prev.Include,
		Completed:    prev.Completed,
		CreatedAt:    prev.CreatedAt,
		LastModified: now,
	}
	if typ == domain.NodeGroup {
		node.IsExpanded = prev.IsExpanded
	}
	if node.ID == "" {
		node.ID = domain.NewNode(typ, rel, now).ID
	}
	if node.Title == "" {
		node.Title = domain.TitleFromName(path.Base(rel))
	}
	if node.CreatedAt.IsZero() {
		node.CreatedAt = now
	}
	return node
}

// Sync rebuilds and persists the tree of a project.
// An empty result only replaces a non-empty stored tree when the project
// root was listed successfully and holds no content at all.
func (s *Synchronizer) Sync(ctx context.Context, projectPath string) (*SyncResult, error) {
	exists, err := s.storage.Exists(ctx, projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check project %s: %w", projectPath, err)
	}
	if !exists {
		return nil, fmt.Errorf("project %s: %w", projectPath, ErrNotFound)
	}

	doc, err := s.configs.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	var prev []*domain.Node
	if doc != nil {
		prev = doc.Structure.Tree
	}

	tree, err := s.build(ctx, projectPath, prev)
	if err != nil {
		s.opts.Logger.Warn("tree sync skipped, keeping stored tree",
			slog.String("project", projectPath), slog.Any("error", err))
		return &SyncResult{Tree: prev}, fmt.Errorf("failed to scan project %s: %w", projectPath, err)
	}

	result := &SyncResult{Tree: tree}
	result.Added, result.Removed = diffIDs(prev, tree)

	var replace []string
	if len(tree) == 0 && len(prev) > 0 {
		empty, err := s.confirmEmpty(ctx, projectPath)
		if err != nil || !empty {
			s.opts.Logger.Warn("scan came back empty but project has content, keeping stored tree",
				slog.String("project", projectPath), slog.Any("error", err))
			result.Tree = prev
			result.Added, result.Removed = 0, 0
			return result, nil
		}
		replace = append(replace, "structure.tree")
	}

	if err := s.configs.Save(ctx, projectPath, domain.TreePatch(tree), replace...); err != nil {
		return result, err
	}
	result.Persisted = true

	s.opts.Logger.Debug("tree synced",
		slog.String("project", projectPath),
		slog.Int("added", result.Added),
		slog.Int("removed", result.Removed))
	return result, nil
}

// confirmEmpty lists the project root again and reports whether it truly holds no tree content
func (s *Synchronizer) confirmEmpty(ctx context.Context, projectPath string) (bool, error) {
	entries, err := s.storage.List(ctx, projectPath)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if s.isContent(e, e.Name) {
			return false, nil
		}
	}
	return true, nil
}

func diffIDs(prev, next []*domain.Node) (added, removed int) {
	before := make(map[string]bool)
	domain.Walk(prev, func(n *domain.Node) bool {
		before[n.ID] = true
		return true
	})
	after := make(map[string]bool)
	domain.Walk(next, func(n *domain.Node) bool {
		after[n.ID] = true
		if !before[n.ID] {
			added++
		}
		return true
	})
	for id := range before {
		if !after[id] {
			removed++
		}
	}
	return added, removed
}
