package cache_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/chesscompare/internal/cache"
	"github.com/vytor/chesscompare/internal/testutil"
)

type SQLiteCacheSuite struct {
	suite.Suite
	db    *sql.DB
	now   time.Time
	cache cache.PlayerListCache
}

func (s *SQLiteCacheSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.now = time.Date(2024, 10, 25, 12, 0, 0, 0, time.UTC)
	s.cache = cache.NewSQLiteCache(s.db, time.Hour, cache.WithClock(func() time.Time { return s.now }))
}

func (s *SQLiteCacheSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SQLiteCacheSuite) TestMiss() {
	list, ok, err := s.cache.Get(context.Background(), cache.TitledKey("gm"))
	s.Require().NoError(err)
	s.False(ok)
	s.Nil(list)
}

func (s *SQLiteCacheSuite) TestPutThenGet() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Put(ctx, cache.CountryKey("gb"), []string{"aporian", "someone"}))

	list, ok, err := s.cache.Get(ctx, "country:GB")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]string{"aporian", "someone"}, list)
}

func (s *SQLiteCacheSuite) TestPutOverwrites() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Put(ctx, "titled:GM", []string{"a"}))
	s.Require().NoError(s.cache.Put(ctx, "titled:GM", []string{"b", "c"}))

	list, ok, err := s.cache.Get(ctx, "titled:GM")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]string{"b", "c"}, list)
}

func (s *SQLiteCacheSuite) TestExpiry() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Put(ctx, "titled:GM", []string{"hikaru"}))

	s.now = s.now.Add(59 * time.Minute)
	_, ok, err := s.cache.Get(ctx, "titled:GM")
	s.Require().NoError(err)
	s.True(ok)

	s.now = s.now.Add(2 * time.Minute)
	_, ok, err = s.cache.Get(ctx, "titled:GM")
	s.Require().NoError(err)
	s.False(ok, "entries older than the ttl are misses")
}

func (s *SQLiteCacheSuite) TestPurge() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Put(ctx, "titled:GM", []string{"hikaru"}))
	s.now = s.now.Add(3 * time.Hour)
	s.Require().NoError(s.cache.Put(ctx, "country:GB", []string{"aporian"}))

	n, err := cache.Purge(ctx, s.db, time.Hour, s.now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	_, ok, err := s.cache.Get(ctx, "country:GB")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *SQLiteCacheSuite) TestPurge_NoTTLKeepsEverything() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Put(ctx, "titled:GM", []string{"hikaru"}))
	s.now = s.now.Add(24 * 365 * time.Hour)

	for _, ttl := range []time.Duration{0, -time.Hour} {
		n, err := cache.Purge(ctx, s.db, ttl, s.now)
		s.Require().NoError(err)
		s.Zero(n)
	}

	lists := cache.NewSQLiteCache(s.db, 0, cache.WithClock(func() time.Time { return s.now }))
	got, ok, err := lists.Get(ctx, "titled:GM")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]string{"hikaru"}, got)
}

func TestSQLiteCacheSuite(t *testing.T) {
	suite.Run(t, new(SQLiteCacheSuite))
}
