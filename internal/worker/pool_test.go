package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesscompare/internal/models"
	"github.com/vytor/chesscompare/internal/table"
	"github.com/vytor/chesscompare/internal/worker"
)

type funcJob struct {
	name string
	run  func(context.Context) error
}

func (j funcJob) Name() string {
	return j.name
}

func (j funcJob) Run(ctx context.Context) error {
	return j.run(ctx)
}

func TestPool_RunsJobs(t *testing.T) {
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, pool.Submit(funcJob{name: "count", run: func(context.Context) error {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		}}))
	}
	wg.Wait()
	pool.Stop()

	assert.Equal(t, 5, ran)
}

func TestPool_QueueFull(t *testing.T) {
	pool := worker.NewPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})
	pool.Start(context.Background())
	defer pool.Stop()
	defer close(release)

	require.NoError(t, pool.Submit(funcJob{name: "block", run: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}))
	<-started

	require.NoError(t, pool.Submit(funcJob{name: "queued", run: func(context.Context) error { return nil }}))
	assert.Equal(t, 1, pool.QueueSize())
	assert.ErrorIs(t, pool.Submit(funcJob{name: "rejected", run: func(context.Context) error { return nil }}), worker.ErrQueueFull)
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	assert.ErrorIs(t, pool.Submit(funcJob{name: "late", run: func(context.Context) error { return nil }}), worker.ErrPoolStopped)
}

func TestPool_SurvivesPanicsAndErrors(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	done := make(chan struct{})
	require.NoError(t, pool.Submit(funcJob{name: "panic", run: func(context.Context) error { panic("boom") }}))
	require.NoError(t, pool.Submit(funcJob{name: "fail", run: func(context.Context) error { return errors.New("nope") }}))
	require.NoError(t, pool.Submit(funcJob{name: "ok", run: func(context.Context) error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from a panicking job")
	}
}

type stubWarmer struct {
	tbl *table.Table
	err error
}

func (s stubWarmer) Table(context.Context, string) (*table.Table, error) { return s.tbl, s.err }

func TestWarmTableJob(t *testing.T) {
	job := &worker.WarmTableJob{
		Warmer:   stubWarmer{tbl: table.New("aporian", []models.GameRecord{{ID: "1"}})},
		Username: "aporian",
	}

	assert.Equal(t, "warm_table", job.Name())
	require.NoError(t, job.Run(context.Background()))

	job.Warmer = stubWarmer{err: errors.New("upstream down")}
	assert.EqualError(t, job.Run(context.Background()), "upstream down")
}
