package history_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesscompare/internal/chesscom"
	apperrors "github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/history"
	"github.com/vytor/chesscompare/internal/testutil"
	"github.com/vytor/chesscompare/internal/testutil/mocks"
)

func archiveURL(year, month int) string {
	return fmt.Sprintf("https://api.chess.com/pub/player/aporian/games/%d/%02d", year, month)
}

func monthGames(month int, n int) []chesscom.MonthlyGame {
	games := make([]chesscom.MonthlyGame, n)
	for i := range games {
		games[i] = testutil.RawGame(fmt.Sprintf("%d%02d", month, i), "aporian", "win", 1500, "bob", "resigned", 1400)
	}
	return games
}

func TestFetch_PartialFailure(t *testing.T) {
	client := new(mocks.MockChessClient)
	archives := []string{archiveURL(2024, 1), archiveURL(2024, 2), archiveURL(2024, 3), archiveURL(2024, 4), archiveURL(2024, 5)}
	client.On("FetchArchives", mock.Anything, "aporian").Return(archives, nil)
	client.On("FetchMonthly", mock.Anything, archives[0]).Return(monthGames(1, 2), nil)
	client.On("FetchMonthly", mock.Anything, archives[1]).Return(nil, errors.New("connection reset"))
	client.On("FetchMonthly", mock.Anything, archives[2]).Return(monthGames(3, 3), nil)
	client.On("FetchMonthly", mock.Anything, archives[3]).Return(nil, errors.New("chess.com status 500"))
	client.On("FetchMonthly", mock.Anything, archives[4]).Return(monthGames(5, 1), nil)

	res, err := history.NewFetcher(client).Fetch(context.Background(), "aporian")
	require.NoError(t, err)

	assert.Equal(t, 5, res.Archives)
	assert.Len(t, res.Games, 6)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, archives[1], res.Failed[0].ArchiveURL)
	assert.Equal(t, archives[3], res.Failed[1].ArchiveURL)
	client.AssertExpectations(t)
}

func TestFetch_PreservesArchiveOrder(t *testing.T) {
	client := new(mocks.MockChessClient)
	archives := []string{archiveURL(2023, 11), archiveURL(2023, 12), archiveURL(2024, 1)}
	client.On("FetchArchives", mock.Anything, "aporian").Return(archives, nil)
	client.On("FetchMonthly", mock.Anything, archives[0]).After(30*time.Millisecond).Return(monthGames(11, 2), nil)
	client.On("FetchMonthly", mock.Anything, archives[1]).After(10*time.Millisecond).Return(monthGames(12, 1), nil)
	client.On("FetchMonthly", mock.Anything, archives[2]).Return(monthGames(1, 2), nil)

	res, err := history.NewFetcher(client).Fetch(context.Background(), "aporian")
	require.NoError(t, err)

	var ids []string
	for _, g := range res.Games {
		ids = append(ids, chesscom.LastSegment(g.URL))
	}
	assert.Equal(t, []string{"1100", "1101", "1200", "100", "101"}, ids)
}

func TestFetch_UnknownUser(t *testing.T) {
	client := new(mocks.MockChessClient)
	client.On("FetchArchives", mock.Anything, "nobody").Return(nil, chesscom.ErrNotFound)

	res, err := history.NewFetcher(client).Fetch(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, res.Games)
	client.AssertNotCalled(t, "FetchMonthly", mock.Anything, mock.Anything)
}

func TestFetch_ArchiveListFailure(t *testing.T) {
	client := new(mocks.MockChessClient)
	client.On("FetchArchives", mock.Anything, "aporian").Return(nil, errors.New("timeout"))

	res, err := history.NewFetcher(client).Fetch(context.Background(), "aporian")
	assert.Nil(t, res)
	assert.Equal(t, apperrors.ErrCodeUpstream, apperrors.CodeOf(err))
}

func TestFetch_ArchiveLimitAndSince(t *testing.T) {
	client := new(mocks.MockChessClient)
	archives := []string{archiveURL(2023, 10), archiveURL(2023, 11), archiveURL(2023, 12), archiveURL(2024, 1)}
	client.On("FetchArchives", mock.Anything, "aporian").Return(archives, nil)
	client.On("FetchMonthly", mock.Anything, archives[2]).Return(monthGames(12, 1), nil)
	client.On("FetchMonthly", mock.Anything, archives[3]).Return(monthGames(1, 1), nil)

	res, err := history.NewFetcher(client, history.WithArchiveLimit(2)).Fetch(context.Background(), "aporian")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Archives)
	assert.Len(t, res.Games, 2)

	since := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	res, err = history.NewFetcher(client, history.WithSince(since)).Fetch(context.Background(), "aporian")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Archives)
}

// countingClient records the maximum number of in-flight monthly fetches.
type countingClient struct {
	archives []string
	delay    time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	calls    atomic.Int32
}

func (c *countingClient) FetchArchives(context.Context, string) ([]string, error) {
	return c.archives, nil
}

func (c *countingClient) FetchMonthly(context.Context, string) ([]chesscom.MonthlyGame, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.peak {
		c.peak = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(c.delay)

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	return monthGames(1, 1), nil
}

func TestFetch_ConcurrentAndBounded(t *testing.T) {
	client := &countingClient{delay: 20 * time.Millisecond}
	for i := 0; i < 72; i++ {
		client.archives = append(client.archives, archiveURL(2018+i/12, i%12+1))
	}

	start := time.Now()
	res, err := history.NewFetcher(client, history.WithMaxConcurrent(24)).Fetch(context.Background(), "aporian")
	require.NoError(t, err)

	assert.Len(t, res.Games, 72)
	assert.Equal(t, int32(72), client.calls.Load())
	assert.LessOrEqual(t, client.peak, 24)
	assert.Greater(t, client.peak, 1, "months are fetched concurrently")
	assert.Less(t, time.Since(start), 72*client.delay/2)
}

func TestFetch_Cancelled(t *testing.T) {
	client := &countingClient{archives: []string{archiveURL(2024, 1)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := history.NewFetcher(client).Fetch(ctx, "aporian")
	assert.ErrorIs(t, err, context.Canceled)
}
