package api_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesscompare/internal/api"
	apperrors "github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/models"
	"github.com/vytor/chesscompare/internal/table"
	"github.com/vytor/chesscompare/internal/testutil/mocks"
)

func newStore(t *testing.T, ttl time.Duration, now func() time.Time) (*api.SessionStore, *mocks.MockHistoryService) {
	t.Helper()
	players := new(mocks.MockPlayerService)
	players.On("GetPlayer", mock.Anything, mock.Anything).
		Return(&models.Player{Profile: models.Profile{Username: "aporian"}}, nil)
	history := new(mocks.MockHistoryService)
	return api.NewSessionStore(players, history, ttl, api.WithSessionClock(now)), history
}

func TestSessionStore_Expires(t *testing.T) {
	now := time.Date(2024, 10, 25, 12, 0, 0, 0, time.UTC)
	store, history := newStore(t, 30*time.Minute, func() time.Time { return now })
	history.On("BuildTable", mock.Anything, "aporian").Return(table.New("aporian", nil), nil)

	ctx := context.Background()
	_, err := store.Table(ctx, "aporian")
	require.NoError(t, err)
	_, err = store.Table(ctx, "Aporian")
	require.NoError(t, err)
	history.AssertNumberOfCalls(t, "BuildTable", 1)
	assert.True(t, store.Cached("APORIAN"))

	now = now.Add(31 * time.Minute)
	assert.False(t, store.Cached("aporian"))

	_, err = store.Table(ctx, "aporian")
	require.NoError(t, err)
	history.AssertNumberOfCalls(t, "BuildTable", 2)
}

func TestSessionStore_Evict(t *testing.T) {
	store, history := newStore(t, time.Hour, time.Now)
	history.On("BuildTable", mock.Anything, "aporian").Return(table.New("aporian", nil), nil)

	_, err := store.Table(context.Background(), "aporian")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	store.Evict("aporian")
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Cached("aporian"))
}

func TestSessionStore_SharesConcurrentBuild(t *testing.T) {
	store, history := newStore(t, time.Hour, time.Now)

	release := make(chan struct{})
	history.On("BuildTable", mock.Anything, "aporian").
		Run(func(mock.Arguments) { <-release }).
		Return(table.New("aporian", nil), nil)

	var wg sync.WaitGroup
	tables := make([]*table.Table, 5)
	for i := range tables {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tbl, err := store.Table(context.Background(), "aporian")
			assert.NoError(t, err)
			tables[i] = tbl
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	history.AssertNumberOfCalls(t, "BuildTable", 1)
	for _, tbl := range tables {
		assert.Same(t, tables[0], tbl)
	}
}

func TestSessionStore_UnknownPlayer(t *testing.T) {
	players := new(mocks.MockPlayerService)
	players.On("GetPlayer", mock.Anything, "ghost").Return(nil, nil)
	history := new(mocks.MockHistoryService)
	store := api.NewSessionStore(players, history, time.Hour)

	_, err := store.Table(context.Background(), "ghost")
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
	assert.Equal(t, 0, store.Len())
	history.AssertNotCalled(t, "BuildTable", mock.Anything, mock.Anything)
}

func TestSessionStore_WaiterRebuildsAfterBuilderCancelled(t *testing.T) {
	store, history := newStore(t, time.Hour, time.Now)

	started := make(chan struct{})
	history.On("BuildTable", mock.Anything, "aporian").
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled).Once()
	history.On("BuildTable", mock.Anything, "aporian").Return(table.New("aporian", nil), nil).Once()

	builderCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := store.Table(builderCtx, "aporian")
		done <- err
	}()
	<-started

	waiter := make(chan error, 1)
	go func() {
		_, err := store.Table(context.Background(), "aporian")
		waiter <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.NoError(t, <-waiter)
	history.AssertNumberOfCalls(t, "BuildTable", 2)
}
