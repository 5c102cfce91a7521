package chesscom

import "context"

// ClientInterface is the slice of the chess.com API the rest of the module uses.
type ClientInterface interface {
	FetchProfile(ctx context.Context, username string) (*Profile, error)
	FetchStats(ctx context.Context, username string) (Stats, error)
	FetchArchives(ctx context.Context, username string) ([]string, error)
	FetchMonthly(ctx context.Context, archiveURL string) ([]MonthlyGame, error)
	FetchTitledPlayers(ctx context.Context, title string) ([]string, error)
	FetchCountryPlayers(ctx context.Context, iso string) ([]string, error)
	FetchPuzzle(ctx context.Context) Puzzle
}

var _ ClientInterface = (*Client)(nil)
