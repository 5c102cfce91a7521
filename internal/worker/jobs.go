package worker

import (
	"context"

	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/table"
)

// TableWarmer builds and stores a player's table. It is implemented by the
// API session store; the interface keeps this package free of that import.
type TableWarmer interface {
	Table(ctx context.Context, username string) (*table.Table, error)
}

// WarmTableJob prebuilds a player's game table so later queries hit the
// session store.
type WarmTableJob struct {
	Warmer   TableWarmer
	Username string
}

func (j *WarmTableJob) Name() string { return "warm_table" }

func (j *WarmTableJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("username", j.Username)
	log.Info("warming game table")

	tbl, err := j.Warmer.Table(ctx, j.Username)
	if err != nil {
		return err
	}
	log.Info("warmed table with %d games", tbl.Len())
	return nil
}
