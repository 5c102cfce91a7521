package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/chesscompare/internal/logger"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type sqliteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

type SQLiteOption func(*sqliteCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) SQLiteOption {
	return func(c *sqliteCache) { c.now = now }
}

// NewSQLiteCache stores lists in the player_lists table. Entries older than
// ttl are treated as missing; ttl <= 0 never expires.
func NewSQLiteCache(db *sql.DB, ttl time.Duration, opts ...SQLiteOption) PlayerListCache {
	c := &sqliteCache{db: db, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *sqliteCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("player_cache").WithField("key", key)

	query, args, err := sqlBuilder.
		Select("usernames", "fetched_at").
		From("player_lists").
		Where(squirrel.Eq{"list_key": key}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, false, err
	}

	var raw string
	var fetchedAt int64
	err = c.db.QueryRowContext(ctx, query, args...).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("cache miss")
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to read cached list: %v", err)
		return nil, false, err
	}

	if c.ttl > 0 && c.now().Sub(time.Unix(fetchedAt, 0)) > c.ttl {
		log.Debug("cache entry expired")
		return nil, false, nil
	}

	var usernames []string
	if err := json.Unmarshal([]byte(raw), &usernames); err != nil {
		log.Warn("discarding unreadable cache entry: %v", err)
		return nil, false, nil
	}
	log.Debug("cache hit: %d usernames", len(usernames))
	return usernames, true, nil
}

func (c *sqliteCache) Put(ctx context.Context, key string, usernames []string) error {
	log := logger.FromContext(ctx).WithPrefix("player_cache").WithField("key", key)

	if usernames == nil {
		usernames = []string{}
	}
	raw, err := json.Marshal(usernames)
	if err != nil {
		return err
	}

	query, args, err := sqlBuilder.
		Insert("player_lists").
		Columns("list_key", "usernames", "fetched_at").
		Values(key, string(raw), c.now().Unix()).
		Suffix("ON CONFLICT(list_key) DO UPDATE SET usernames = excluded.usernames, fetched_at = excluded.fetched_at").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to store list: %v", err)
		return err
	}
	log.Debug("stored %d usernames", len(usernames))
	return nil
}

// Purge deletes entries older than the cache TTL and returns how many went.
// A ttl <= 0 never expires, so nothing is deleted.
func Purge(ctx context.Context, db *sql.DB, ttl time.Duration, now time.Time) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	query, args, err := sqlBuilder.
		Delete("player_lists").
		Where(squirrel.Lt{"fetched_at": now.Add(-ttl).Unix()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("player_cache").Error("failed to purge lists: %v", err)
		return 0, err
	}
	return res.RowsAffected()
}
