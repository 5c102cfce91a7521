package services

import (
	"context"

	"github.com/vytor/chesscompare/internal/compare"
	"github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/models"
)

// ComparisonService compares a user with a chosen opponent.
type ComparisonService interface {
	Compare(ctx context.Context, username, mode, other string) (*models.Comparison, error)
}

type comparisonService struct {
	players   PlayerService
	opponents OpponentService
}

// NewComparisonService creates a new ComparisonService
func NewComparisonService(players PlayerService, opponents OpponentService) ComparisonService {
	return &comparisonService{players: players, opponents: opponents}
}

func (s *comparisonService) Compare(ctx context.Context, username, mode, other string) (*models.Comparison, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"username": username, "mode": mode})

	user, err := s.players.GetPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NewNotFoundError("player", username)
	}

	opponent, err := s.opponents.PickOpponent(ctx, user.Profile, mode, other)
	if err != nil {
		return nil, err
	}

	them, err := s.players.GetPlayer(ctx, opponent)
	if err != nil {
		return nil, err
	}
	if them == nil {
		return nil, errors.NewNotFoundError("player", opponent)
	}

	c := compare.Build(
		compare.Side{Username: user.Profile.Username, Stats: user.Stats},
		compare.Side{Username: them.Profile.Username, Stats: them.Stats},
	)
	log.Info("compared with %s over %d rows", opponent, len(c.Rows))
	return &c, nil
}
