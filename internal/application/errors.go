package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidPosition  = errors.New("invalid position")
	ErrAlreadyExists    = errors.New("already exists")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MoveError represents a failed physical move of a file or folder.
// The tree is never persisted after a MoveError.
type MoveError struct {
	Source string
	Dest   string
	Reason string
	Err    error
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot move %s to %s: %s: %v", e.Source, e.Dest, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot move %s to %s: %s", e.Source, e.Dest, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
