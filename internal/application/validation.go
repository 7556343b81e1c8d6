package application

import (
	"fmt"
	"path"
	"strings"

	"folio/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "projectPath" -> "project path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"projectPath": "project path",
		"projectName": "project name",
		"projectType": "project type",
		"relPath":     "file path",
		"draggedID":   "dragged node ID",
		"targetID":    "target node ID",
		"position":    "position",
		"words":       "target words",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateProjectName checks a new project folder name
func ValidateProjectName(fieldName, name string) error {
	if err := ValidateRequired(fieldName, name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, `/\`) || domain.IsHidden(name) || name == ".." {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a plain folder name, got: %s", formatFieldName(fieldName), name),
		}
	}
	return nil
}

// ValidateRelPath checks a project-relative path: non-empty, relative and outside the metadata folder
func ValidateRelPath(fieldName, p string) error {
	if err := ValidateRequired(fieldName, p); err != nil {
		return err
	}
	clean := path.Clean(p)
	if path.IsAbs(p) || clean == ".." || strings.HasPrefix(clean, "../") {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must stay inside the project, got: %s", formatFieldName(fieldName), p),
		}
	}
	if domain.IsMetaPath(clean) {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s points into %s/", formatFieldName(fieldName), domain.MetaDir),
		}
	}
	return nil
}

// ValidateNonNegative checks a numeric field
func ValidateNonNegative(fieldName string, n int) error {
	if n < 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not be negative, got: %d", formatFieldName(fieldName), n),
		}
	}
	return nil
}
