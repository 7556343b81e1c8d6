package application

import (
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"folio/internal/domain"
)

// Options carries the settings shared by the services
type Options struct {
	Logger  *slog.Logger
	Now     func() time.Time
	Rules   domain.Rules
	Ignore  []string // doublestar patterns matched against project-relative paths
	Workers int      // concurrent file reads per stats pass
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rules.ChapterPrefix == "" {
		o.Rules.ChapterPrefix = domain.DefaultChapterPrefix
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	return o
}

// Ignored reports whether a project-relative path matches an ignore pattern
func (o Options) Ignored(relPath string) bool {
	for _, pattern := range o.Ignore {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}
