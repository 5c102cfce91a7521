package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/chesscompare/internal/chesscom"
	"github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/models"
	"github.com/vytor/chesscompare/internal/stats"
)

// PlayerService looks up chess.com players and their rating stats.
type PlayerService interface {
	// GetPlayer returns nil, nil when chess.com does not know username.
	GetPlayer(ctx context.Context, username string) (*models.Player, error)
	GetRatings(ctx context.Context, username string) ([]models.RatingRow, error)
	GetPuzzle(ctx context.Context) chesscom.Puzzle
}

type playerService struct {
	client chesscom.ClientInterface
}

// NewPlayerService creates a new PlayerService
func NewPlayerService(client chesscom.ClientInterface) PlayerService {
	return &playerService{client: client}
}

func (s *playerService) GetPlayer(ctx context.Context, username string) (*models.Player, error) {
	log := logger.FromContext(ctx).WithField("username", username)
	log.Debug("looking up player")

	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}

	raw, err := s.client.FetchProfile(ctx, username)
	if stderrors.Is(err, chesscom.ErrNotFound) {
		log.Info("unknown username")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to fetch profile: %v", err)
		return nil, errors.NewUpstreamError("profile", err)
	}

	rawStats, err := s.client.FetchStats(ctx, username)
	if stderrors.Is(err, chesscom.ErrNotFound) {
		rawStats = chesscom.Stats{}
	} else if err != nil {
		log.Error("failed to fetch stats: %v", err)
		return nil, errors.NewUpstreamError("stats", err)
	}

	player := &models.Player{Profile: ProfileFrom(raw, username), Stats: stats.Decode(rawStats)}
	log.Debug("decoded %d metrics", len(player.Stats))
	return player, nil
}

func (s *playerService) GetRatings(ctx context.Context, username string) ([]models.RatingRow, error) {
	player, err := s.GetPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, errors.NewNotFoundError("player", username)
	}
	return stats.CurrentVsBest(player.Stats), nil
}

func (s *playerService) GetPuzzle(ctx context.Context) chesscom.Puzzle {
	return s.client.FetchPuzzle(ctx)
}

// ProfileFrom converts an upstream profile, falling back to requested for
// the username and to the username for the display name.
func ProfileFrom(raw *chesscom.Profile, requested string) models.Profile {
	p := models.Profile{
		Username: raw.Username,
		Name:     raw.Name,
		Title:    raw.Title,
		URL:      raw.URL,
	}
	if p.Username == "" {
		p.Username = requested
	}
	if p.Name == "" {
		p.Name = p.Username
	}
	if raw.Country != "" {
		p.Country = chesscom.LastSegment(raw.Country)
	}
	return p
}
