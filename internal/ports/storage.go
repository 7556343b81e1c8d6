package ports

import (
	"context"
	"time"
)

// Entry describes a file or directory in storage
type Entry struct {
	Name    string
	Path    string // Root-relative, slash separated
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Storage is the file store holding every project.
// Paths are relative to the storage root and slash separated; errors for
// missing entries wrap fs.ErrNotExist.
type Storage interface {
	// Root returns the absolute location of the store, for opening files in other programs
	Root() string

	List(ctx context.Context, dir string) ([]Entry, error)
	Stat(ctx context.Context, path string) (Entry, error)
	Exists(ctx context.Context, path string) (bool, error)

	Read(ctx context.Context, path string) ([]byte, error)
	// Write creates or replaces a file atomically, creating parent directories
	Write(ctx context.Context, path string, data []byte) error
	Mkdir(ctx context.Context, path string) error

	// Rename moves a file or directory; it fails with fs.ErrExist when the destination exists
	Rename(ctx context.Context, from, to string) error
	// Remove deletes a file or a directory tree
	Remove(ctx context.Context, path string) error
}
