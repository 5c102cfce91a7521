package services

import (
	"context"
	"time"

	"github.com/vytor/chesscompare/internal/chesscom"
	"github.com/vytor/chesscompare/internal/history"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/table"
)

// HistoryService builds a player's game table from their archives.
type HistoryService interface {
	BuildTable(ctx context.Context, username string) (*table.Table, error)
}

type HistoryConfig struct {
	ArchiveLimit  int
	MaxConcurrent int
}

type historyService struct {
	fetcher *history.Fetcher
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(client chesscom.ClientInterface, cfg HistoryConfig) HistoryService {
	return &historyService{
		fetcher: history.NewFetcher(client,
			history.WithArchiveLimit(cfg.ArchiveLimit),
			history.WithMaxConcurrent(cfg.MaxConcurrent),
		),
	}
}

func (s *historyService) BuildTable(ctx context.Context, username string) (*table.Table, error) {
	log := logger.FromContext(ctx).WithField("username", username)
	start := time.Now()

	res, err := s.fetcher.Fetch(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(res.Failed) > 0 {
		log.Warn("%d of %d archives could not be loaded", len(res.Failed), res.Archives)
	}

	tracked := history.ResolveUsername(res.Games, username)
	records, err := history.Normalize(ctx, res.Games, tracked)
	if err != nil {
		return nil, err
	}

	log.Info("built table with %d games in %v", len(records), time.Since(start))
	return table.New(username, records), nil
}
