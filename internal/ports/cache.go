package ports

// CachedCount is a remembered word count for one file
type CachedCount struct {
	Path    string // Root-relative file path (primary key)
	Size    int64
	ModTime int64  // Unix nanoseconds
	Hash    uint64 // xxhash of the content
	Words   int
}

// WordCountCache remembers word counts between stats passes so unchanged files are not re-read
type WordCountCache interface {
	// Get returns nil when the path is not cached
	Get(path string) (*CachedCount, error)

	// Prune drops cached files under projectPath that are not in live
	Prune(projectPath string, live map[string]bool) (int, error)

	BeginTx() (CacheTx, error)
	Close() error
}

// CacheTx batches cache updates
type CacheTx interface {
	Upsert(c *CachedCount) error
	Delete(path string) error
	// RenamePrefix rewrites a moved file or every file below a moved folder
	RenamePrefix(oldPath, newPath string) error

	Commit() error
	Rollback() error
}
