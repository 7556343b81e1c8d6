package commands

import (
	"context"

	"folio/internal/application"
	"folio/internal/domain"
)

// ListProjectsCommand rescans the root and lists every project
type ListProjectsCommand struct {
	workspace *application.Workspace
}

// NewListProjectsCommand creates a new ListProjectsCommand
func NewListProjectsCommand(workspace *application.Workspace) *ListProjectsCommand {
	return &ListProjectsCommand{workspace: workspace}
}

// Execute runs the list projects command
func (c *ListProjectsCommand) Execute(ctx context.Context) ([]domain.Project, error) {
	return c.workspace.Refresh(ctx), nil
}

// ShowTreeCommand loads the stored tree of a project
type ShowTreeCommand struct {
	workspace   *application.Workspace
	ProjectPath string
}

// NewShowTreeCommand creates a new ShowTreeCommand
func NewShowTreeCommand(workspace *application.Workspace, projectPath string) *ShowTreeCommand {
	return &ShowTreeCommand{
		workspace:   workspace,
		ProjectPath: projectPath,
	}
}

// Validate checks the command arguments
func (c *ShowTreeCommand) Validate() error {
	return application.ValidateRequired("projectPath", c.ProjectPath)
}

// Execute runs the show tree command
func (c *ShowTreeCommand) Execute(ctx context.Context) ([]*domain.Node, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.workspace.Tree(ctx, c.ProjectPath)
}
