package sqlite

import (
	"database/sql"
	"strings"
	"unicode/utf8"

	"folio/internal/ports"
)

// cacheTx implements ports.CacheTx
type cacheTx struct {
	tx *sql.Tx
}

// Ensure cacheTx implements CacheTx
var _ ports.CacheTx = (*cacheTx)(nil)

// Upsert inserts or updates a cached count
func (t *cacheTx) Upsert(entry *ports.CachedCount) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO word_counts (path, size, mtime, hash, words)
		VALUES (?, ?, ?, ?, ?)
	`, entry.Path, entry.Size, entry.ModTime, int64(entry.Hash), entry.Words)
	return err
}

// Delete removes a cached count by path
func (t *cacheTx) Delete(path string) error {
	_, err := t.tx.Exec(`DELETE FROM word_counts WHERE path = ?`, path)
	return err
}

// RenamePrefix moves the entry at oldPath, or every entry below it when it was a folder
func (t *cacheTx) RenamePrefix(oldPath, newPath string) error {
	oldPath = strings.TrimSuffix(oldPath, "/")
	newPath = strings.TrimSuffix(newPath, "/")
	prefix := oldPath + "/"
	_, err := t.tx.Exec(`
		UPDATE OR REPLACE word_counts
		SET path = ? || substr(path, ?)
		WHERE path = ? OR substr(path, 1, ?) = ?
	`, newPath, utf8.RuneCountInString(oldPath)+1, oldPath, utf8.RuneCountInString(prefix), prefix)
	return err
}

// Commit commits the transaction
func (t *cacheTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *cacheTx) Rollback() error {
	return t.tx.Rollback()
}
