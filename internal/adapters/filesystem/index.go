package filesystem

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"folio/internal/domain"
	"folio/internal/ports"
)

// Index implements ports.ProjectIndex: every directory directly under the
// storage root is a project.
type Index struct {
	storage ports.Storage
	logger  *slog.Logger
}

// Ensure Index implements ports.ProjectIndex
var _ ports.ProjectIndex = (*Index)(nil)

// NewIndex creates a project index over storage
func NewIndex(storage ports.Storage, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{storage: storage, logger: logger}
}

// ScanProjects lists the projects sorted by display name.
// A missing root yields no projects. Legacy metadata folders are removed on the way.
func (idx *Index) ScanProjects(ctx context.Context) []domain.Project {
	entries, err := idx.storage.List(ctx, "")
	if err != nil {
		idx.logger.Debug("project root not listable", slog.String("root", idx.storage.Root()), slog.Any("error", err))
		return []domain.Project{}
	}

	seen := make(map[string]bool)
	projects := make([]domain.Project, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir || domain.IsHidden(e.Name) || seen[e.Path] {
			continue
		}
		seen[e.Path] = true

		idx.removeLegacyMeta(ctx, e.Path)
		projects = append(projects, idx.describe(ctx, e))
	}

	col := collate.New(language.Und, collate.IgnoreCase)
	col.Sort(projectsByName(projects))
	return projects
}

func (idx *Index) removeLegacyMeta(ctx context.Context, projectPath string) {
	legacy := path.Join(projectPath, domain.LegacyMetaDir)
	exists, err := idx.storage.Exists(ctx, legacy)
	if err != nil || !exists {
		return
	}
	if err := idx.storage.Remove(ctx, legacy); err != nil {
		idx.logger.Warn("failed to remove legacy metadata folder", slog.String("path", legacy), slog.Any("error", err))
		return
	}
	idx.logger.Info("removed legacy metadata folder", slog.String("path", legacy))
}

func (idx *Index) describe(ctx context.Context, e ports.Entry) domain.Project {
	p := domain.Project{Name: e.Name, Path: e.Path, Type: domain.ProjectBook}

	doc := idx.readConfig(ctx, e.Path)
	if doc != nil {
		if t := strings.TrimSpace(doc.Basic.Title); t != "" {
			p.Name = t
		}
		p.Type = doc.Type()
	}
	p.Cover = idx.resolveCover(ctx, e.Path, doc)
	return p
}

func (idx *Index) readConfig(ctx context.Context, projectPath string) *domain.ConfigDocument {
	for _, candidate := range []string{domain.ConfigPath(projectPath), domain.LegacyConfigPath(projectPath)} {
		data, err := idx.storage.Read(ctx, candidate)
		if err != nil {
			continue
		}
		doc, err := domain.DecodeConfigDocument(data)
		if err != nil {
			idx.logger.Warn("unparsable project config", slog.String("path", candidate), slog.Any("error", err))
			return nil
		}
		return doc
	}
	return nil
}

// resolveCover prefers the declared cover and falls back to the first image in misc/cover
func (idx *Index) resolveCover(ctx context.Context, projectPath string, doc *domain.ConfigDocument) string {
	if doc != nil && doc.Basic.Cover != "" {
		declared := strings.TrimPrefix(path.Clean("/"+doc.Basic.Cover), "/")
		if ok, err := idx.storage.Exists(ctx, path.Join(projectPath, declared)); err == nil && ok {
			return declared
		}
	}

	entries, err := idx.storage.List(ctx, path.Join(projectPath, domain.CoverDir))
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir && !domain.IsHidden(e.Name) && domain.IsImage(e.Name) {
			return path.Join(domain.CoverDir, e.Name)
		}
	}
	return ""
}

// ResolveFile looks up a project-relative path; callers must treat the result as possibly stale
func (idx *Index) ResolveFile(ctx context.Context, project domain.Project, relPath string) (ports.Entry, bool) {
	entry, err := idx.storage.Stat(ctx, path.Join(project.Path, relPath))
	if err != nil {
		return ports.Entry{}, false
	}
	return entry, true
}

// projectsByName adapts a project slice to collate.Lister
type projectsByName []domain.Project

func (p projectsByName) Len() int           { return len(p) }
func (p projectsByName) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p projectsByName) Bytes(i int) []byte { return []byte(p[i].Name) }
