package commands

import (
	"context"
	"fmt"

	"folio/internal/application"
	"folio/internal/domain"
)

// StatsResult contains a stats snapshot
type StatsResult struct {
	Stats   *domain.Stats
	Message string
}

// ComputeStatsCommand recounts every countable file of a project
type ComputeStatsCommand struct {
	stats       *application.StatsEngine
	ProjectPath string
}

// NewComputeStatsCommand creates a new ComputeStatsCommand
func NewComputeStatsCommand(stats *application.StatsEngine, projectPath string) *ComputeStatsCommand {
	return &ComputeStatsCommand{
		stats:       stats,
		ProjectPath: projectPath,
	}
}

// Validate checks the command arguments
func (c *ComputeStatsCommand) Validate() error {
	return application.ValidateRequired("projectPath", c.ProjectPath)
}

// Execute runs the compute stats command
func (c *ComputeStatsCommand) Execute(ctx context.Context) (*StatsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, err := c.stats.ComputeAndSave(ctx, c.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &StatsResult{
		Stats:   s,
		Message: fmt.Sprintf("%s: %d words in %d files", c.ProjectPath, s.TotalWords, len(s.PerChapter)),
	}, nil
}

// ShowStatsCommand reads the stored stats without recounting
type ShowStatsCommand struct {
	configs     *application.ConfigStore
	ProjectPath string
}

// NewShowStatsCommand creates a new ShowStatsCommand
func NewShowStatsCommand(configs *application.ConfigStore, projectPath string) *ShowStatsCommand {
	return &ShowStatsCommand{
		configs:     configs,
		ProjectPath: projectPath,
	}
}

// Validate checks the command arguments
func (c *ShowStatsCommand) Validate() error {
	return application.ValidateRequired("projectPath", c.ProjectPath)
}

// Execute runs the show stats command
func (c *ShowStatsCommand) Execute(ctx context.Context) (*StatsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	doc, err := c.configs.Load(ctx, c.ProjectPath)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("project config for %s: %w", c.ProjectPath, application.ErrNotFound)
	}
	return &StatsResult{
		Stats:   &doc.Stats,
		Message: fmt.Sprintf("%s: %d words", c.ProjectPath, doc.Stats.TotalWords),
	}, nil
}

// SetTargetCommand stores the word goal of a project
type SetTargetCommand struct {
	stats       *application.StatsEngine
	ProjectPath string
	Words       int
}

// NewSetTargetCommand creates a new SetTargetCommand
func NewSetTargetCommand(stats *application.StatsEngine, projectPath string, words int) *SetTargetCommand {
	return &SetTargetCommand{
		stats:       stats,
		ProjectPath: projectPath,
		Words:       words,
	}
}

// Validate checks the command arguments
func (c *SetTargetCommand) Validate() error {
	if err := application.ValidateRequired("projectPath", c.ProjectPath); err != nil {
		return err
	}
	return application.ValidateNonNegative("words", c.Words)
}

// Execute runs the set target command
func (c *SetTargetCommand) Execute(ctx context.Context) (*StatsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, err := c.stats.SetTarget(ctx, c.ProjectPath, c.Words)
	if err != nil {
		return nil, fmt.Errorf("failed to set target: %w", err)
	}
	return &StatsResult{
		Stats:   s,
		Message: fmt.Sprintf("Target set to %d words (%.2f%% done)", s.TargetTotalWords, s.ProgressByWords),
	}, nil
}
