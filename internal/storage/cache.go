package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is fixed-width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// RenderCache stores rendered documents keyed by dataset, format and
// catalog fingerprint. Expired entries are treated as misses.
type RenderCache struct {
	db  *DB
	now func() time.Time
}

// NewRenderCache creates a new cache instance
func NewRenderCache(db *DB) *RenderCache {
	return &RenderCache{db: db, now: time.Now}
}

// RenderKey builds the cache key of a rendered document.
func RenderKey(dataset, format, fingerprint string) string {
	return dataset + ":" + format + ":" + fingerprint
}

// Get retrieves a document. The bool reports whether a live entry was found.
func (c *RenderCache) Get(key string) (string, bool, error) {
	var body string
	var expiresAt string

	err := c.db.QueryRow(`
		SELECT body, expires_at
		FROM render_cache
		WHERE key = ?
	`, key).Scan(&body, &expiresAt)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("render cache lookup failed: %w", err)
	}

	expiresAtTime, err := time.Parse(timeLayout, expiresAt)
	if err != nil {
		return "", false, fmt.Errorf("invalid expires_at format: %w", err)
	}

	if !c.now().Before(expiresAtTime) {
		if _, err := c.db.Exec("DELETE FROM render_cache WHERE key = ?", key); err != nil {
			return "", false, fmt.Errorf("failed to evict expired entry: %w", err)
		}
		return "", false, nil
	}

	return body, true, nil
}

// Set stores a document for ttl.
func (c *RenderCache) Set(key, dataset, format, body string, ttl time.Duration) error {
	now := c.now()
	expiresAt := now.Add(ttl)

	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO render_cache (key, dataset, format, body, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, key, dataset, format, body, formatTime(expiresAt), formatTime(now))

	if err != nil {
		return fmt.Errorf("failed to set render cache: %w", err)
	}
	return nil
}

// InvalidateDataset removes every cached document of a dataset.
func (c *RenderCache) InvalidateDataset(dataset string) error {
	if _, err := c.db.Exec("DELETE FROM render_cache WHERE dataset = ?", dataset); err != nil {
		return fmt.Errorf("failed to invalidate dataset: %w", err)
	}
	return nil
}

// CleanupExpired removes expired entries and returns how many were removed.
func (c *RenderCache) CleanupExpired() (int64, error) {
	res, err := c.db.Exec("DELETE FROM render_cache WHERE expires_at <= ?", formatTime(c.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up render cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns the number of stored entries per format.
func (c *RenderCache) Stats() (map[string]int, error) {
	rows, err := c.db.Query("SELECT format, COUNT(*) FROM render_cache GROUP BY format")
	if err != nil {
		return nil, fmt.Errorf("failed to read cache stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var format string
		var n int
		if err := rows.Scan(&format, &n); err != nil {
			return nil, err
		}
		stats[format] = n
	}
	return stats, rows.Err()
}
