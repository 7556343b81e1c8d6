package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	t.Setenv("FOLIO_ROOT", "")
	assert.Equal(t, DefaultRoot, Root())

	t.Setenv("FOLIO_ROOT", "/srv/writing")
	assert.Equal(t, "/srv/writing", Root())
}

func TestLoadFileMissing(t *testing.T) {
	t.Setenv("FOLIO_ROOT", "")
	s, err := LoadFile(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, 400*time.Millisecond, s.Debounce())
	assert.Equal(t, "chapter", s.Rules().ChapterPrefix)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("FOLIO_ROOT", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
root = "/data/books"
chapter_prefix = "Capitolo"
strict_prefix_rules = true
debounce_ms = 250
ignore = ["drafts/**", "**/*.bak.md"]

[cache]
backend = "memory"
size = 512
`), 0644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/books", s.Root)
	assert.Equal(t, []string{"drafts/**", "**/*.bak.md"}, s.Ignore)
	assert.Equal(t, CacheSettings{Backend: CacheMemory, Size: 512}, s.Cache)
	assert.Equal(t, 250*time.Millisecond, s.Debounce())

	rules := s.Rules()
	assert.Equal(t, "Capitolo", rules.ChapterPrefix)
	assert.True(t, rules.Strict)

	t.Setenv("FOLIO_ROOT", "/override")
	s, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/override", s.Root)
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("root = "), 0644))
	_, err := LoadFile(broken)
	assert.Error(t, err)

	badCache := filepath.Join(dir, "cache.toml")
	require.NoError(t, os.WriteFile(badCache, []byte("[cache]\nbackend = \"redis\"\n"), 0644))
	_, err = LoadFile(badCache)
	assert.ErrorContains(t, err, "unknown cache backend")
}

func TestPath(t *testing.T) {
	t.Setenv("FOLIO_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "folio", "config.toml"), Path())

	t.Setenv("FOLIO_CONFIG", "/etc/folio.toml")
	assert.Equal(t, "/etc/folio.toml", Path())
}
