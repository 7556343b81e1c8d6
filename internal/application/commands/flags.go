package commands

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/application"
	"folio/internal/domain"
)

// InclusionMode selects which manual override to apply
type InclusionMode int

const (
	InclusionClear InclusionMode = iota
	InclusionInclude
	InclusionExclude
)

func (m InclusionMode) String() string {
	switch m {
	case InclusionInclude:
		return "included"
	case InclusionExclude:
		return "excluded"
	default:
		return "cleared overrides of"
	}
}

// Override returns the node flags for the mode
func (m InclusionMode) Override() domain.InclusionOverride {
	return domain.InclusionOverride{
		Include: m == InclusionInclude,
		Exclude: m == InclusionExclude,
	}
}

// SetInclusionCommand forces a file or folder in or out of the stats
type SetInclusionCommand struct {
	mutator     *application.Mutator
	ProjectPath string
	RelPath     string
	Mode        InclusionMode
}

// NewSetInclusionCommand creates a new SetInclusionCommand
func NewSetInclusionCommand(mutator *application.Mutator, projectPath, relPath string, mode InclusionMode) *SetInclusionCommand {
	return &SetInclusionCommand{
		mutator:     mutator,
		ProjectPath: projectPath,
		RelPath:     relPath,
		Mode:        mode,
	}
}

// Validate checks the command arguments
func (c *SetInclusionCommand) Validate() error {
	if err := application.ValidateRequired("projectPath", c.ProjectPath); err != nil {
		return err
	}
	return application.ValidateRelPath("relPath", c.RelPath)
}

// Execute runs the set inclusion command
func (c *SetInclusionCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.mutator.SetInclusion(ctx, c.ProjectPath, c.RelPath, c.Mode.Override()); err != nil {
		return "", fmt.Errorf("failed to update %s: %w", c.RelPath, err)
	}
	return fmt.Sprintf("%s %s", capitalize(c.Mode.String()), c.RelPath), nil
}

// SetCompletedCommand marks a node as done or not done
type SetCompletedCommand struct {
	mutator     *application.Mutator
	ProjectPath string
	RelPath     string
	Completed   bool
}

// NewSetCompletedCommand creates a new SetCompletedCommand
func NewSetCompletedCommand(mutator *application.Mutator, projectPath, relPath string, completed bool) *SetCompletedCommand {
	return &SetCompletedCommand{
		mutator:     mutator,
		ProjectPath: projectPath,
		RelPath:     relPath,
		Completed:   completed,
	}
}

// Validate checks the command arguments
func (c *SetCompletedCommand) Validate() error {
	if err := application.ValidateRequired("projectPath", c.ProjectPath); err != nil {
		return err
	}
	return application.ValidateRelPath("relPath", c.RelPath)
}

// Execute runs the set completed command
func (c *SetCompletedCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := c.mutator.SetCompleted(ctx, c.ProjectPath, c.RelPath, c.Completed); err != nil {
		return "", fmt.Errorf("failed to update %s: %w", c.RelPath, err)
	}
	if c.Completed {
		return fmt.Sprintf("Marked %s as completed", c.RelPath), nil
	}
	return fmt.Sprintf("Marked %s as in progress", c.RelPath), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
