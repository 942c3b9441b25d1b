package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache stores entries in a single SQLite database file. Compared to
// FileCache it keeps everything in one artifact, which suits dropping a
// .relaymap-cache.db next to a build directory.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLiteCache(path string) (Cache, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		expires_at INTEGER, -- unix nanoseconds, NULL = no expiry
		updated_at INTEGER DEFAULT (strftime('%s','now'))
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get retrieves a value, treating expired entries as misses and removing
// them.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var expires sql.NullInt64

	row := c.db.QueryRowContext(ctx,
		`SELECT data, expires_at FROM cache_entries WHERE key = ?`, key)
	if err := row.Scan(&data, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if expires.Valid && time.Now().UnixNano() > expires.Int64 {
		_, _ = c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, false, nil
	}

	return data, true, nil
}

// Set stores a value, replacing any existing entry.
func (c *SQLiteCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires any
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, data, expires_at) VALUES (?, ?, ?)`,
		key, data, expires)
	return err
}

// Delete removes a value.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	return err
}

// Close closes the database.
func (c *SQLiteCache) Close() error { return c.db.Close() }

var _ Cache = (*SQLiteCache)(nil)
