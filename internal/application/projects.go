package application

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"folio/internal/domain"
	"folio/internal/ports"
)

// CreateProjectRequest describes a new project
type CreateProjectRequest struct {
	Name        string // Folder name, also the initial title
	Type        domain.ProjectType
	Authors     []string
	Subtitle    string
	Description string
}

// ProjectCreator lays out new projects on disk
type ProjectCreator struct {
	storage ports.Storage
	configs *ConfigStore
	sync    *Synchronizer
	opts    Options
}

// NewProjectCreator creates a project creator
func NewProjectCreator(storage ports.Storage, configs *ConfigStore, synchronizer *Synchronizer, opts Options) *ProjectCreator {
	return &ProjectCreator{storage: storage, configs: configs, sync: synchronizer, opts: opts.withDefaults()}
}

// Create makes the project folder, its config document and the starter files for its type
func (c *ProjectCreator) Create(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	if err := ValidateProjectName("projectName", req.Name); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	typ := req.Type
	if typ == "" {
		typ = domain.ProjectBook
	}

	exists, err := c.storage.Exists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", name, err)
	}
	if exists {
		return nil, fmt.Errorf("project %s: %w", name, ErrAlreadyExists)
	}

	if err := c.storage.Mkdir(ctx, path.Join(name, domain.MetaDir)); err != nil {
		return nil, fmt.Errorf("failed to create project folder: %w", err)
	}

	doc := domain.NewConfigDocument(name, typ, req.Authors, c.opts.Now())
	doc.Basic.Subtitle = req.Subtitle
	doc.Basic.Desc = req.Description
	if err := c.configs.Save(ctx, name, domain.DocumentPatch(doc)); err != nil {
		return nil, err
	}

	for _, file := range domain.StarterLayout(typ) {
		if err := c.storage.Write(ctx, path.Join(name, file), nil); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", file, err)
		}
	}

	if _, err := c.sync.Sync(ctx, name); err != nil {
		return nil, err
	}

	c.opts.Logger.Info("project created", slog.String("project", name), slog.String("type", typ.String()))
	return &domain.Project{Name: name, Path: name, Type: typ}, nil
}
