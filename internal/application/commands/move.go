package commands

import (
	"context"
	"fmt"

	"folio/internal/application"
)

// ReorderResult contains the result of a drag-and-drop edit
type ReorderResult struct {
	DraggedID string
	TargetID  string
	Position  application.Position
	Message   string
}

// ReorderCommand moves a node before, after or inside another one.
// Crossing folders moves the file on disk.
type ReorderCommand struct {
	mutator     *application.Mutator
	ProjectPath string
	DraggedID   string
	TargetID    string
	Position    string
}

// NewReorderCommand creates a new ReorderCommand
func NewReorderCommand(mutator *application.Mutator, projectPath, draggedID, targetID, position string) *ReorderCommand {
	return &ReorderCommand{
		mutator:     mutator,
		ProjectPath: projectPath,
		DraggedID:   draggedID,
		TargetID:    targetID,
		Position:    position,
	}
}

// Validate checks if the reorder operation is valid
func (c *ReorderCommand) Validate() error {
	if err := application.ValidateRequired("projectPath", c.ProjectPath); err != nil {
		return err
	}
	if err := application.ValidateRequired("draggedID", c.DraggedID); err != nil {
		return err
	}
	if err := application.ValidateRequired("targetID", c.TargetID); err != nil {
		return err
	}
	if c.DraggedID == c.TargetID {
		return &application.ValidationError{
			Field:   "targetID",
			Message: "cannot drop a node onto itself",
		}
	}
	if _, err := application.ParsePosition(c.Position); err != nil {
		return &application.ValidationError{
			Field:   "position",
			Message: fmt.Sprintf("position must be before, after or inside, got: %s", c.Position),
		}
	}
	return nil
}

// Execute runs the reorder command
func (c *ReorderCommand) Execute(ctx context.Context) (*ReorderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pos, _ := application.ParsePosition(c.Position)

	if err := c.mutator.Reorder(ctx, c.ProjectPath, c.DraggedID, c.TargetID, pos); err != nil {
		return nil, fmt.Errorf("failed to reorder: %w", err)
	}

	return &ReorderResult{
		DraggedID: c.DraggedID,
		TargetID:  c.TargetID,
		Position:  pos,
		Message:   fmt.Sprintf("Moved %s %s %s", c.DraggedID, pos, c.TargetID),
	}, nil
}
