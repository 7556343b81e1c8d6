package memcache

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"folio/internal/ports"
)

// DefaultSize bounds the number of remembered files
const DefaultSize = 4096

var errTxDone = errors.New("transaction already finished")

// Cache implements ports.WordCountCache in memory with LRU eviction
type Cache struct {
	entries *lru.Cache[string, ports.CachedCount]
	mu      sync.Mutex // serializes commits
}

// Ensure Cache implements WordCountCache
var _ ports.WordCountCache = (*Cache)(nil)

// New creates a cache holding at most size files; size <= 0 means DefaultSize
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, ports.CachedCount](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create word count cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns nil when the path is not cached
func (c *Cache) Get(path string) (*ports.CachedCount, error) {
	entry, ok := c.entries.Get(path)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Len returns the number of cached files
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Prune drops the cached files of a project that are not in live
func (c *Cache) Prune(projectPath string, live map[string]bool) (int, error) {
	prefix := strings.TrimSuffix(projectPath, "/") + "/"
	pruned := 0
	for _, path := range c.entries.Keys() {
		if strings.HasPrefix(path, prefix) && !live[path] {
			if c.entries.Remove(path) {
				pruned++
			}
		}
	}
	return pruned, nil
}

// BeginTx starts a buffered transaction applied on Commit
func (c *Cache) BeginTx() (ports.CacheTx, error) {
	return &cacheTx{cache: c}, nil
}

// Close is a no-op
func (c *Cache) Close() error {
	return nil
}

// cacheTx buffers operations until Commit
type cacheTx struct {
	cache *Cache
	ops   []func(*lru.Cache[string, ports.CachedCount])
	done  bool
}

// Ensure cacheTx implements CacheTx
var _ ports.CacheTx = (*cacheTx)(nil)

func (t *cacheTx) add(op func(*lru.Cache[string, ports.CachedCount])) error {
	if t.done {
		return errTxDone
	}
	t.ops = append(t.ops, op)
	return nil
}

func (t *cacheTx) Upsert(entry *ports.CachedCount) error {
	e := *entry
	return t.add(func(l *lru.Cache[string, ports.CachedCount]) {
		l.Add(e.Path, e)
	})
}

func (t *cacheTx) Delete(path string) error {
	return t.add(func(l *lru.Cache[string, ports.CachedCount]) {
		l.Remove(path)
	})
}

func (t *cacheTx) RenamePrefix(oldPath, newPath string) error {
	oldPath = strings.TrimSuffix(oldPath, "/")
	newPath = strings.TrimSuffix(newPath, "/")
	return t.add(func(l *lru.Cache[string, ports.CachedCount]) {
		for _, path := range l.Keys() {
			if path != oldPath && !strings.HasPrefix(path, oldPath+"/") {
				continue
			}
			entry, ok := l.Peek(path)
			if !ok {
				continue
			}
			l.Remove(path)
			entry.Path = newPath + strings.TrimPrefix(path, oldPath)
			l.Add(entry.Path, entry)
		}
	})
}

func (t *cacheTx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.cache.mu.Lock()
	defer t.cache.mu.Unlock()
	for _, op := range t.ops {
		op(t.cache.entries)
	}
	t.ops = nil
	return nil
}

func (t *cacheTx) Rollback() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.ops = nil
	return nil
}
