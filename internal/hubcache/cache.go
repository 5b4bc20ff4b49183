// Package hubcache persists successful remote lookups in a local SQLite
// database so repeated derive runs do not refetch unchanged model metadata.
//
// Only successful lookups are stored. Failed lookups always go to the remote
// so a gated or missing model is retried on the next run. Cache read and
// write failures are logged and bypassed.
package hubcache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentstation/sizer/pkg/constants"
	"github.com/agentstation/sizer/pkg/derive"
	"github.com/agentstation/sizer/pkg/errors"
	"github.com/agentstation/sizer/pkg/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS lookups (
	model_id   TEXT    NOT NULL,
	kind       TEXT    NOT NULL,
	payload    TEXT    NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (model_id, kind)
)`

const (
	kindConfig = "config"
	kindTotal  = "total_parameters"
)

// Cache is a SQLite-backed lookup cache.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	stats Stats
}

// Stats counts cache activity.
type Stats struct {
	Hits   int
	Misses int
	Errors int
}

// Open opens (creating if needed) the cache database at path.
// A non-positive ttl selects constants.LookupCacheTTL.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = constants.LookupCacheTTL
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("create", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("initialize", path, err)
	}
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Stats returns a snapshot of cache activity.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Purge removes entries older than the TTL and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, "DELETE FROM lookups WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, errors.WrapIO("purge", "lookups", err)
	}
	return res.RowsAffected()
}

// Wrap returns a derive.Lookup that consults the cache before next.
func (c *Cache) Wrap(next derive.Lookup) derive.Lookup {
	return &cachedLookup{cache: c, next: next}
}

func (c *Cache) load(ctx context.Context, id, kind string) (string, bool) {
	var (
		payload   string
		fetchedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM lookups WHERE model_id = ? AND kind = ?",
		id, kind,
	).Scan(&payload, &fetchedAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		c.count(func(s *Stats) { s.Misses++ })
		return "", false
	case err != nil:
		c.count(func(s *Stats) { s.Errors++ })
		logging.FromContext(ctx).Warn().Err(err).Str("kind", kind).Msg("Lookup cache read failed")
		return "", false
	}

	if c.now().Sub(time.Unix(fetchedAt, 0)) > c.ttl {
		c.count(func(s *Stats) { s.Misses++ })
		return "", false
	}
	c.count(func(s *Stats) { s.Hits++ })
	return payload, true
}

func (c *Cache) store(ctx context.Context, id, kind, payload string) {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO lookups (model_id, kind, payload, fetched_at) VALUES (?, ?, ?, ?)",
		id, kind, payload, c.now().Unix(),
	)
	if err != nil {
		c.count(func(s *Stats) { s.Errors++ })
		logging.FromContext(ctx).Warn().Err(err).Str("kind", kind).Msg("Lookup cache write failed")
	}
}

func (c *Cache) count(f func(*Stats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}
