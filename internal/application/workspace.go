package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"folio/internal/domain"
	"folio/internal/ports"
)

// Workspace owns the UI-facing state: the known projects and the expanded folders of each tree.
// It replaces process-wide lists with a single object handed to whoever needs it.
type Workspace struct {
	index   ports.ProjectIndex
	configs *ConfigStore
	mutator *Mutator

	mu       sync.RWMutex
	projects []domain.Project
	expanded map[string]map[string]bool // project path -> folder path -> expanded
}

// NewWorkspace creates an empty workspace; call Refresh to populate it
func NewWorkspace(index ports.ProjectIndex, configs *ConfigStore, mutator *Mutator) *Workspace {
	return &Workspace{
		index:    index,
		configs:  configs,
		mutator:  mutator,
		expanded: make(map[string]map[string]bool),
	}
}

// Refresh rescans the storage root
func (w *Workspace) Refresh(ctx context.Context) []domain.Project {
	projects := w.index.ScanProjects(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.projects = projects
	live := make(map[string]bool, len(projects))
	for _, p := range projects {
		live[p.Path] = true
	}
	for p := range w.expanded {
		if !live[p] {
			delete(w.expanded, p)
		}
	}
	return slices.Clone(projects)
}

// Projects returns a copy of the known projects
func (w *Workspace) Projects() []domain.Project {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.projects)
}

// Find returns the project at projectPath
func (w *Workspace) Find(projectPath string) (domain.Project, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.projects {
		if p.Path == projectPath {
			return p, true
		}
	}
	return domain.Project{}, false
}

// Resolve finds a project by path, folder name or display name (case-insensitive)
func (w *Workspace) Resolve(name string) (domain.Project, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.projects {
		if p.Path == name {
			return p, nil
		}
	}
	for _, p := range w.projects {
		if strings.EqualFold(p.Path, name) || strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return domain.Project{}, fmt.Errorf("project %q: %w", name, ErrNotFound)
}

// Owner returns the project containing a root-relative path
func (w *Workspace) Owner(storagePath string) (domain.Project, bool) {
	first, _, _ := strings.Cut(strings.TrimPrefix(storagePath, "/"), "/")
	return w.Find(first)
}

// Tree loads a project's tree and seeds the expanded set from the stored flags
func (w *Workspace) Tree(ctx context.Context, projectPath string) ([]*domain.Node, error) {
	doc, err := w.configs.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return []*domain.Node{}, nil
	}

	set := make(map[string]bool)
	domain.Walk(doc.Structure.Tree, func(n *domain.Node) bool {
		if n.IsGroup() && n.IsExpanded {
			set[n.Path] = true
		}
		return true
	})

	w.mu.Lock()
	w.expanded[projectPath] = set
	w.mu.Unlock()
	return doc.Structure.Tree, nil
}

// Node finds a node of a project's stored tree by project-relative path or by id
func (w *Workspace) Node(ctx context.Context, projectPath, ref string) (*domain.Node, error) {
	doc, err := w.configs.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	if doc != nil {
		tree := doc.Structure.Tree
		if n := domain.FindByPath(tree, strings.Trim(ref, "/")); n != nil {
			return n, nil
		}
		var found *domain.Node
		domain.Walk(tree, func(n *domain.Node) bool {
			if n.ID == ref {
				found = n
			}
			return found == nil
		})
		if found != nil {
			return found, nil
		}
	}
	return nil, fmt.Errorf("node %q in %s: %w", ref, projectPath, ErrNotFound)
}

// IsExpanded reports whether a folder is open in the UI
func (w *Workspace) IsExpanded(projectPath, relPath string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.expanded[projectPath][relPath]
}

// ToggleExpanded flips a folder's expansion and persists it; it returns the new state
func (w *Workspace) ToggleExpanded(ctx context.Context, projectPath, relPath string) (bool, error) {
	w.mu.Lock()
	set, ok := w.expanded[projectPath]
	if !ok {
		set = make(map[string]bool)
		w.expanded[projectPath] = set
	}
	state := !set[relPath]
	set[relPath] = state
	w.mu.Unlock()

	if err := w.mutator.SetExpanded(ctx, projectPath, relPath, state); err != nil {
		w.mu.Lock()
		set[relPath] = !state
		w.mu.Unlock()
		return !state, err
	}
	return state, nil
}
