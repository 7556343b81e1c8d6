package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"

	"folio/internal/ports"
)

const filePerm = 0644

// Storage implements ports.Storage on a local directory
type Storage struct {
	root string
}

// Ensure Storage implements ports.Storage
var _ ports.Storage = (*Storage)(nil)

// NewStorage creates a storage rooted at root
func NewStorage(root string) *Storage {
	return &Storage{root: ExpandHome(root)}
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(p string) string {
	if strings.HasPrefix(p, "~") {
		home, _ := os.UserHomeDir()
		p = filepath.Join(home, p[1:])
	}
	return p
}

// Root returns the absolute root directory
func (s *Storage) Root() string {
	return s.root
}

// abs maps a root-relative slash path to a filesystem path, refusing to leave the root
func (s *Storage) abs(p string) (string, error) {
	clean := path.Clean("/" + p)
	if strings.Contains(p, "\x00") {
		return "", fmt.Errorf("invalid path %q", p)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func rel(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// List returns the entries of dir sorted by name
func (s *Storage) List(ctx context.Context, dir string) ([]ports.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.abs(dir)
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	entries := make([]ports.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		entries = append(entries, ports.Entry{
			Name:    de.Name(),
			Path:    path.Join(rel(dir), de.Name()),
			IsDir:   de.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Stat describes a single entry
func (s *Storage) Stat(ctx context.Context, p string) (ports.Entry, error) {
	if err := ctx.Err(); err != nil {
		return ports.Entry{}, err
	}
	full, err := s.abs(p)
	if err != nil {
		return ports.Entry{}, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return ports.Entry{}, err
	}
	return ports.Entry{
		Name:    info.Name(),
		Path:    rel(p),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Exists reports whether p exists
func (s *Storage) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Read returns the content of a file
func (s *Storage) Read(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.abs(p)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// Write replaces a file atomically via a temp file and rename
func (s *Storage) Write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", p, err)
	}
	if err := atomic.WriteFile(full, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	// New files come out of the temp file with 0600
	if err := os.Chmod(full, filePerm); err != nil {
		return fmt.Errorf("failed to set permissions of %s: %w", p, err)
	}
	return nil
}

// Mkdir creates a directory and its parents
func (s *Storage) Mkdir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.abs(p)
	if err != nil {
		return err
	}
	return os.MkdirAll(full, 0755)
}

// Rename moves a file or directory, refusing to replace an existing destination
func (s *Storage) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := s.abs(from)
	if err != nil {
		return err
	}
	dst, err := s.abs(to)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("failed to move %s: %s: %w", from, to, fs.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination folder: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s: %w", from, err)
	}
	return nil
}

// Remove deletes a file or directory tree
func (s *Storage) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rel(p) == "" {
		return fmt.Errorf("refusing to remove the storage root")
	}
	full, err := s.abs(p)
	if err != nil {
		return err
	}
	return os.RemoveAll(full)
}
