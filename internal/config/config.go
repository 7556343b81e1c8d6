package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"folio/internal/domain"
)

const DefaultRoot = "~/Documents/Writing"

// Cache backends
const (
	CacheSQLite = "sqlite"
	CacheMemory = "memory"
	CacheNone   = "none"
)

// Root returns the storage root from the FOLIO_ROOT env var,
// falling back to DefaultRoot.
func Root() string {
	if env := os.Getenv("FOLIO_ROOT"); env != "" {
		return env
	}
	return DefaultRoot
}

// CacheSettings selects the word-count cache
type CacheSettings struct {
	Backend string `toml:"backend"`
	Size    int    `toml:"size"` // Entries, memory backend only
}

// Settings is the optional config.toml
type Settings struct {
	Root              string        `toml:"root"`
	ChapterPrefix     string        `toml:"chapter_prefix"`
	StrictPrefixRules bool          `toml:"strict_prefix_rules"`
	DebounceMs        int           `toml:"debounce_ms"`
	Ignore            []string      `toml:"ignore"`
	Cache             CacheSettings `toml:"cache"`
}

// Defaults returns the settings used when no file exists
func Defaults() Settings {
	return Settings{
		Root:          Root(),
		ChapterPrefix: domain.DefaultChapterPrefix,
		DebounceMs:    400,
		Cache:         CacheSettings{Backend: CacheSQLite},
	}
}

// Path returns the settings file location: FOLIO_CONFIG, else $XDG_CONFIG_HOME/folio/config.toml
func Path() string {
	if env := os.Getenv("FOLIO_CONFIG"); env != "" {
		return env
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "folio", "config.toml")
}

// Load reads the settings file over the defaults. A missing file is not an error.
// FOLIO_ROOT wins over the file's root.
func Load() (Settings, error) {
	return LoadFile(Path())
}

// LoadFile reads settings from an explicit path
func LoadFile(path string) (Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if env := os.Getenv("FOLIO_ROOT"); env != "" {
		s.Root = env
	}
	if strings.TrimSpace(s.Root) == "" {
		s.Root = DefaultRoot
	}
	if err := s.Validate(); err != nil {
		return Defaults(), fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Validate checks values that have no sensible fallback
func (s Settings) Validate() error {
	switch s.Cache.Backend {
	case "", CacheSQLite, CacheMemory, CacheNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want sqlite, memory or none)", s.Cache.Backend)
	}
	if s.DebounceMs < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", s.DebounceMs)
	}
	return nil
}

// Rules returns the inclusion rules configured by the settings
func (s Settings) Rules() domain.Rules {
	r := domain.DefaultRules()
	if p := strings.TrimSpace(s.ChapterPrefix); p != "" {
		r.ChapterPrefix = p
	}
	r.Strict = s.StrictPrefixRules
	return r
}

// Debounce returns the quiet period of the stats scheduler
func (s Settings) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}
