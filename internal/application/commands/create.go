package commands

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/application"
	"folio/internal/domain"
)

// CreateProjectResult contains the result of creating a project
type CreateProjectResult struct {
	Project *domain.Project
	Message string
}

// CreateProjectCommand creates a project folder with its config and starter files
type CreateProjectCommand struct {
	creator     *application.ProjectCreator
	Name        string
	Type        string
	Authors     []string
	Subtitle    string
	Description string
}

// NewCreateProjectCommand creates a new CreateProjectCommand
func NewCreateProjectCommand(creator *application.ProjectCreator, name, projectType string) *CreateProjectCommand {
	return &CreateProjectCommand{
		creator: creator,
		Name:    name,
		Type:    projectType,
	}
}

// Validate checks if the create operation is valid
func (c *CreateProjectCommand) Validate() error {
	if err := application.ValidateProjectName("projectName", c.Name); err != nil {
		return err
	}
	if strings.ContainsAny(c.Type, `/\ `) {
		return &application.ValidationError{
			Field:   "projectType",
			Message: fmt.Sprintf("project type must be a single word, got: %s", c.Type),
		}
	}
	return nil
}

// Execute runs the create project command
func (c *CreateProjectCommand) Execute(ctx context.Context) (*CreateProjectResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	project, err := c.creator.Create(ctx, application.CreateProjectRequest{
		Name:        c.Name,
		Type:        domain.ParseProjectType(c.Type),
		Authors:     c.Authors,
		Subtitle:    c.Subtitle,
		Description: c.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	kind := "custom"
	if project.Type.IsBuiltin() {
		kind = project.Type.String()
	}
	return &CreateProjectResult{
		Project: project,
		Message: fmt.Sprintf("Created %s project: %s", kind, project.Path),
	}, nil
}
