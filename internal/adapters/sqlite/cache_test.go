package sqlite

import (
	"path/filepath"
	"testing"

	"folio/internal/ports"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c := NewCache()
	if err := c.OpenFile(filepath.Join(t.TempDir(), "cache.db")); err != nil {
		t.Fatalf("failed to open cache: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("failed to close cache: %v", err)
		}
	})
	return c
}

func upsert(t *testing.T, c *Cache, entries ...ports.CachedCount) {
	t.Helper()
	tx, err := c.BeginTx()
	if err != nil {
		t.Fatal(err)
	}
	for i := range entries {
		if err := tx.Upsert(&entries[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestCacheGetAndUpsert(t *testing.T) {
	c := openTestCache(t)

	got, err := c.Get("novel/Chapter 1.md")
	if err != nil || got != nil {
		t.Fatalf("expected miss, got %+v, %v", got, err)
	}

	want := ports.CachedCount{Path: "novel/Chapter 1.md", Size: 42, ModTime: 1700000000123456789, Hash: 0xfedcba9876543210, Words: 7}
	upsert(t, c, want)

	got, err = c.Get(want.Path)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != want {
		t.Errorf("Get() = %+v, expected %+v", got, want)
	}

	want.Words = 9
	upsert(t, c, want)
	got, _ = c.Get(want.Path)
	if got.Words != 9 {
		t.Errorf("expected updated words 9, got %d", got.Words)
	}
}

func TestCacheRenamePrefix(t *testing.T) {
	c := openTestCache(t)
	upsert(t, c,
		ports.CachedCount{Path: "novel/Volume 1/Chapter 1.md", Words: 1},
		ports.CachedCount{Path: "novel/Volume 1/Chapter 2.md", Words: 2},
		ports.CachedCount{Path: "novel/Volume 10/Chapter 3.md", Words: 3},
		ports.CachedCount{Path: "novel/Àrbol/Capítulo.md", Words: 4},
	)

	tx, err := c.BeginTx()
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.RenamePrefix("novel/Volume 1", "novel/Part/Volume 1"); err != nil {
		t.Fatal(err)
	}
	if err := tx.RenamePrefix("novel/Àrbol/Capítulo.md", "novel/Capítulo.md"); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	for path, words := range map[string]int{
		"novel/Part/Volume 1/Chapter 1.md": 1,
		"novel/Part/Volume 1/Chapter 2.md": 2,
		"novel/Volume 10/Chapter 3.md":     3,
		"novel/Capítulo.md":                4,
	} {
		got, err := c.Get(path)
		if err != nil || got == nil || got.Words != words {
			t.Errorf("Get(%q) = %+v, %v; expected %d words", path, got, err, words)
		}
	}
	if got, _ := c.Get("novel/Volume 1/Chapter 1.md"); got != nil {
		t.Error("old path still cached")
	}
}

func TestCachePrune(t *testing.T) {
	c := openTestCache(t)
	upsert(t, c,
		ports.CachedCount{Path: "novel/a.md"},
		ports.CachedCount{Path: "novel/b.md"},
		ports.CachedCount{Path: "novel-two/a.md"},
	)

	n, err := c.Prune("novel", map[string]bool{"novel/a.md": true})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned entry, got %d", n)
	}
	if total, _ := c.Len(); total != 2 {
		t.Errorf("expected 2 remaining entries, got %d", total)
	}
	if got, _ := c.Get("novel-two/a.md"); got == nil {
		t.Error("other project's entry was pruned")
	}
}

func TestCacheRollback(t *testing.T) {
	c := openTestCache(t)
	tx, err := c.BeginTx()
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Upsert(&ports.CachedCount{Path: "novel/a.md", Words: 1}); err != nil {
		t.Fatal(err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Get("novel/a.md"); got != nil {
		t.Error("rolled back entry is visible")
	}
}

func TestCacheReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	root := filepath.Join(dir, "Writing")

	c := NewCache()
	if err := c.Open(root); err != nil {
		t.Fatal(err)
	}
	upsert(t, c, ports.CachedCount{Path: "novel/a.md", Words: 5})
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(c.Path()) != filepath.Join(dir, "folio") {
		t.Errorf("unexpected database location %s", c.Path())
	}

	c = NewCache()
	if err := c.Open(root); err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if got, _ := c.Get("novel/a.md"); got == nil || got.Words != 5 {
		t.Errorf("expected entry to survive reopen, got %+v", got)
	}
}
