// Package history fetches a player's monthly game archives and normalizes the
// raw games into GameRecords seen from that player's side.
package history

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/vytor/chesscompare/internal/chesscom"
	apperrors "github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
)

const defaultMaxConcurrent = 16

// ArchiveClient is the part of the chess.com client the fetcher needs.
type ArchiveClient interface {
	FetchArchives(ctx context.Context, username string) ([]string, error)
	FetchMonthly(ctx context.Context, archiveURL string) ([]chesscom.MonthlyGame, error)
}

// MonthFailure records an archive that could not be loaded.
type MonthFailure struct {
	ArchiveURL string
	Err        error
}

// FetchResult is the merged history. Games keep archive order and source
// order within a month. Failed months contribute no games.
type FetchResult struct {
	Games    []chesscom.MonthlyGame
	Archives int
	Failed   []MonthFailure
}

type Fetcher struct {
	client        ArchiveClient
	limit         int
	maxConcurrent int
	since         time.Time
}

type FetcherOption func(*Fetcher)

// WithArchiveLimit keeps only the most recent n months. 0 keeps all.
func WithArchiveLimit(n int) FetcherOption {
	return func(f *Fetcher) { f.limit = n }
}

func WithMaxConcurrent(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxConcurrent = n
		}
	}
}

// WithSince drops archives for months before since.
func WithSince(since time.Time) FetcherOption {
	return func(f *Fetcher) { f.since = since }
}

func NewFetcher(client ArchiveClient, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{client: client, maxConcurrent: defaultMaxConcurrent}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch loads every monthly archive of username concurrently. A month that
// fails is logged and dropped. An unknown username yields an empty result.
// Only a failure to list the archives, or ctx ending, is returned as an error.
func (f *Fetcher) Fetch(ctx context.Context, username string) (*FetchResult, error) {
	log := logger.FromContext(ctx).WithPrefix("fetcher").WithField("username", username)

	archives, err := f.client.FetchArchives(ctx, username)
	if stderrors.Is(err, chesscom.ErrNotFound) {
		log.Info("no archives for user")
		return &FetchResult{}, nil
	}
	if err != nil {
		log.Error("failed to fetch archives: %v", err)
		return nil, apperrors.NewUpstreamError("archive list", err)
	}

	archives = filterArchivesSince(archives, f.since)
	if f.limit > 0 && len(archives) > f.limit {
		archives = archives[len(archives)-f.limit:]
		log.Debug("limiting to last %d archives", f.limit)
	}
	log.Info("fetching %d archives in parallel", len(archives))

	type monthResult struct {
		games []chesscom.MonthlyGame
		err   error
	}
	results := make([]monthResult, len(archives))
	sem := make(chan struct{}, f.maxConcurrent)

	var wg sync.WaitGroup
	for i, archiveURL := range archives {
		wg.Add(1)
		go func(i int, archiveURL string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = monthResult{err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			games, err := f.client.FetchMonthly(ctx, archiveURL)
			results[i] = monthResult{games: games, err: err}
		}(i, archiveURL)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn("fetch cancelled: %v", err)
		return nil, err
	}

	out := &FetchResult{Archives: len(archives)}
	for i, res := range results {
		if res.err != nil {
			log.WithField("archive_url", archives[i]).Warn("dropping month: %v", res.err)
			out.Failed = append(out.Failed, MonthFailure{ArchiveURL: archives[i], Err: res.err})
			continue
		}
		out.Games = append(out.Games, res.games...)
	}

	log.Info("fetched %d games from %d archives (%d failed)", len(out.Games), len(archives), len(out.Failed))
	return out, nil
}

func filterArchivesSince(archives []string, since time.Time) []string {
	if since.IsZero() {
		return archives
	}
	sinceMonth := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)

	var filtered []string
	for _, u := range archives {
		year, month, ok := chesscom.ArchiveMonth(u)
		if !ok {
			continue
		}
		if time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Before(sinceMonth) {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered
}
