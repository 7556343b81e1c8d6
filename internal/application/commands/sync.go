package commands

import (
	"context"
	"fmt"

	"folio/internal/application"
	"folio/internal/domain"
)

// SyncTreeResult contains the result of a tree sync
type SyncTreeResult struct {
	Tree      []*domain.Node
	Added     int
	Removed   int
	Persisted bool
	Message   string
}

// SyncTreeCommand reconciles a project's stored tree with its files
type SyncTreeCommand struct {
	sync        *application.Synchronizer
	ProjectPath string
}

// NewSyncTreeCommand creates a new SyncTreeCommand
func NewSyncTreeCommand(synchronizer *application.Synchronizer, projectPath string) *SyncTreeCommand {
	return &SyncTreeCommand{
		sync:        synchronizer,
		ProjectPath: projectPath,
	}
}

// Validate checks the command arguments
func (c *SyncTreeCommand) Validate() error {
	return application.ValidateRequired("projectPath", c.ProjectPath)
}

// Execute runs the sync command
func (c *SyncTreeCommand) Execute(ctx context.Context) (*SyncTreeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	res, err := c.sync.Sync(ctx, c.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to sync tree: %w", err)
	}

	msg := fmt.Sprintf("Synced %s: %d added, %d removed", c.ProjectPath, res.Added, res.Removed)
	if !res.Persisted {
		msg = fmt.Sprintf("Kept stored tree of %s: scan looked incomplete", c.ProjectPath)
	}
	return &SyncTreeResult{
		Tree:      res.Tree,
		Added:     res.Added,
		Removed:   res.Removed,
		Persisted: res.Persisted,
		Message:   msg,
	}, nil
}

// SyncBaselineCommand aligns stats.per_chapter with the countable files without counting words
type SyncBaselineCommand struct {
	mutator     *application.Mutator
	ProjectPath string
}

// NewSyncBaselineCommand creates a new SyncBaselineCommand
func NewSyncBaselineCommand(mutator *application.Mutator, projectPath string) *SyncBaselineCommand {
	return &SyncBaselineCommand{
		mutator:     mutator,
		ProjectPath: projectPath,
	}
}

// Validate checks the command arguments
func (c *SyncBaselineCommand) Validate() error {
	return application.ValidateRequired("projectPath", c.ProjectPath)
}

// Execute runs the baseline sync
func (c *SyncBaselineCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.mutator.SyncStatsBaseline(ctx, c.ProjectPath); err != nil {
		return "", fmt.Errorf("failed to sync stats baseline: %w", err)
	}
	return fmt.Sprintf("Stats baseline of %s updated", c.ProjectPath), nil
}
