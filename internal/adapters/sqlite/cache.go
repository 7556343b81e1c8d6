package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"folio/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "2"

// Cache implements ports.WordCountCache using SQLite
type Cache struct {
	db       *sql.DB
	rootPath string
	dbPath   string
}

// Ensure Cache implements WordCountCache
var _ ports.WordCountCache = (*Cache)(nil)

// NewCache creates a new, unopened SQLite cache
func NewCache() *Cache {
	return &Cache{}
}

// Open initializes the cache for the given storage root under the XDG data directory
func (c *Cache) Open(rootPath string) error {
	if strings.HasPrefix(rootPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		rootPath = filepath.Join(home, rootPath[1:])
	}
	c.rootPath = rootPath
	return c.OpenFile(databasePath(rootPath))
}

// OpenFile initializes the cache in an explicit database file
func (c *Cache) OpenFile(dbPath string) error {
	c.dbPath = dbPath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -16000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := c.migrate(); err != nil {
		db.Close()
		return fmt.Errorf("failed to migrate cache: %w", err)
	}
	return nil
}

// migrate recreates the counts table when the stored schema is older
func (c *Cache) migrate() error {
	var version string
	err := c.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if version != schemaVersion {
		if _, err := c.db.Exec(`DROP TABLE IF EXISTS word_counts`); err != nil {
			return err
		}
	}

	_, err = c.db.Exec(`
		CREATE TABLE IF NOT EXISTS word_counts (
			path TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			mtime INTEGER NOT NULL,
			hash INTEGER NOT NULL,
			words INTEGER NOT NULL
		);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('root_path_hash', ?);
	`, schemaVersion, hashRootPath(c.rootPath))
	return err
}

// Close closes the database connection
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file in use
func (c *Cache) Path() string {
	return c.dbPath
}

// databasePath returns the path for the SQLite database
func databasePath(rootPath string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "folio", hashRootPath(rootPath)+".db")
}

// hashRootPath returns a short hash of the storage root
func hashRootPath(rootPath string) string {
	h := sha256.Sum256([]byte(rootPath))
	return hex.EncodeToString(h[:8])
}

// Get retrieves the cached count of a root-relative file path
func (c *Cache) Get(path string) (*ports.CachedCount, error) {
	var entry ports.CachedCount
	var hash int64

	err := c.db.QueryRow(`
		SELECT path, size, mtime, hash, words
		FROM word_counts WHERE path = ?
	`, path).Scan(&entry.Path, &entry.Size, &entry.ModTime, &hash, &entry.Words)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry.Hash = uint64(hash)
	return &entry, nil
}

// Len returns the number of cached files
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM word_counts`).Scan(&n)
	return n, err
}

// Prune drops the cached files of a project that are not in live
func (c *Cache) Prune(projectPath string, live map[string]bool) (int, error) {
	prefix := strings.TrimSuffix(projectPath, "/") + "/"
	rows, err := c.db.Query(`
		SELECT path FROM word_counts WHERE substr(path, 1, ?) = ?
	`, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return 0, err
	}

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return 0, err
		}
		if !live[path] {
			stale = append(stale, path)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := c.BeginTx()
	if err != nil {
		return 0, err
	}
	for _, path := range stale {
		if err := tx.Delete(path); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// BeginTx starts a new transaction
func (c *Cache) BeginTx() (ports.CacheTx, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, err
	}
	return &cacheTx{tx: tx}, nil
}
