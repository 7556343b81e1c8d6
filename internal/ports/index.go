package ports

import (
	"context"

	"folio/internal/domain"
)

// ProjectIndex enumerates projects under the storage root
type ProjectIndex interface {
	ScanProjects(ctx context.Context) []domain.Project
	ResolveFile(ctx context.Context, project domain.Project, relPath string) (Entry, bool)
}
