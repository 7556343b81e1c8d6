package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sync"

	"folio/internal/domain"
	"folio/internal/ports"
)

// ConfigStore reads and merge-saves the per-project config document
type ConfigStore struct {
	storage ports.Storage
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewConfigStore creates a config store over storage
func NewConfigStore(storage ports.Storage, opts Options) *ConfigStore {
	opts = opts.withDefaults()
	return &ConfigStore{
		storage: storage,
		logger:  opts.Logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *ConfigStore) lock(projectPath string) func() {
	s.mu.Lock()
	l, ok := s.locks[projectPath]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectPath] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// location returns the document path in use: the canonical one, or the legacy one when only it exists
func (s *ConfigStore) location(ctx context.Context, projectPath string) string {
	canonical := domain.ConfigPath(projectPath)
	if ok, err := s.storage.Exists(ctx, canonical); err == nil && ok {
		return canonical
	}
	legacy := domain.LegacyConfigPath(projectPath)
	if ok, err := s.storage.Exists(ctx, legacy); err == nil && ok {
		return legacy
	}
	return canonical
}

// Load returns the project's document, or nil when it is absent or unparsable
func (s *ConfigStore) Load(ctx context.Context, projectPath string) (*domain.ConfigDocument, error) {
	loc := s.location(ctx, projectPath)
	data, err := s.storage.Read(ctx, loc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no project config", slog.String("project", projectPath))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", loc, err)
	}

	doc, err := domain.DecodeConfigDocument(data)
	if err != nil {
		s.logger.Warn("unparsable project config", slog.String("path", loc), slog.Any("error", err))
		return nil, nil
	}
	return doc, nil
}

// Save merges patch into the stored document and writes it back.
// replace lists dotted paths (e.g. "stats.per_chapter") that take the patch value wholesale.
func (s *ConfigStore) Save(ctx context.Context, projectPath string, patch domain.Patch, replace ...string) error {
	incoming, err := patch.Generic()
	if err != nil {
		return fmt.Errorf("failed to encode config patch: %w", err)
	}

	unlock := s.lock(projectPath)
	defer unlock()

	if err := s.storage.Mkdir(ctx, path.Join(projectPath, domain.MetaDir)); err != nil {
		return fmt.Errorf("failed to create metadata folder: %w", err)
	}

	loc := s.location(ctx, projectPath)
	merged := incoming
	data, err := s.storage.Read(ctx, loc)
	switch {
	case err == nil:
		existing, perr := domain.DecodeGeneric(data)
		if perr != nil {
			s.logger.Warn("existing project config unparsable, overwriting", slog.String("path", loc), slog.Any("error", perr))
			break
		}
		paths := make(map[string]bool, len(replace))
		for _, p := range replace {
			paths[p] = true
		}
		merged = domain.MergeJSON(existing, incoming, paths)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to read %s: %w", loc, err)
	}

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project config: %w", err)
	}
	out = append(out, '\n')

	if err := s.storage.Write(ctx, loc, out); err != nil {
		return fmt.Errorf("failed to write %s: %w", loc, err)
	}
	return nil
}
