package commands

import (
	"context"
	"fmt"

	"folio/internal/application"
)

// AssembleResult contains the assembled manuscript
type AssembleResult struct {
	Markdown string
	Message  string
}

// AssembleCommand joins the included chapters of a project into one markdown document
type AssembleCommand struct {
	assembler   *application.Assembler
	ProjectPath string
}

// NewAssembleCommand creates a new AssembleCommand
func NewAssembleCommand(assembler *application.Assembler, projectPath string) *AssembleCommand {
	return &AssembleCommand{
		assembler:   assembler,
		ProjectPath: projectPath,
	}
}

// Validate checks the command arguments
func (c *AssembleCommand) Validate() error {
	return application.ValidateRequired("projectPath", c.ProjectPath)
}

// Execute runs the assemble command
func (c *AssembleCommand) Execute(ctx context.Context) (*AssembleResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	md, err := c.assembler.Assemble(ctx, c.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble manuscript: %w", err)
	}
	return &AssembleResult{
		Markdown: md,
		Message:  fmt.Sprintf("Assembled %s (%d bytes)", c.ProjectPath, len(md)),
	}, nil
}
