package application

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"folio/internal/domain"
	"folio/internal/ports"
)

// Assembler joins a project's chapters into one markdown manuscript for the external PDF printer
type Assembler struct {
	storage ports.Storage
	configs *ConfigStore
	opts    Options
}

// NewAssembler creates an assembler
func NewAssembler(storage ports.Storage, configs *ConfigStore, opts Options) *Assembler {
	return &Assembler{storage: storage, configs: configs, opts: opts.withDefaults()}
}

// Assemble concatenates the markdown files of the tree in editorial order.
// Excluded files are skipped and frontmatter is stripped.
func (a *Assembler) Assemble(ctx context.Context, projectPath string) (string, error) {
	doc, err := a.configs.Load(ctx, projectPath)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("project config for %s: %w", projectPath, ErrNotFound)
	}
	sets := domain.BuildOverrideSets(doc.Structure.Tree)

	var parts []string
	if doc.Export.IncludeCover {
		if block := titleBlock(doc.Basic); block != "" {
			parts = append(parts, block)
		}
	}

	var walkErr error
	domain.Walk(doc.Structure.Tree, func(n *domain.Node) bool {
		if walkErr != nil {
			return false
		}
		if n.IsGroup() {
			return true
		}
		if n.Type != domain.NodeFile || sets.Excluded[n.Path] {
			return false
		}
		data, err := a.storage.Read(ctx, path.Join(projectPath, n.Path))
		if err != nil {
			if ctx.Err() != nil {
				walkErr = ctx.Err()
				return false
			}
			a.opts.Logger.Warn("skipping unreadable chapter", slog.String("project", projectPath), slog.String("path", n.Path), slog.Any("error", err))
			return false
		}
		if body := strings.TrimSpace(domain.StripFrontmatter(string(data))); body != "" {
			parts = append(parts, body)
		}
		return false
	})
	if walkErr != nil {
		return "", walkErr
	}

	return strings.Join(parts, "\n\n") + "\n", nil
}

func titleBlock(b domain.Basic) string {
	if strings.TrimSpace(b.Title) == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("# " + b.Title + "\n")
	if b.Subtitle != "" {
		sb.WriteString("\n_" + b.Subtitle + "_\n")
	}
	if len(b.Author) > 0 {
		sb.WriteString("\n" + strings.Join(b.Author, ", ") + "\n")
	}
	sb.WriteString("\n---")
	return sb.String()
}
