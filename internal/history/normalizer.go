package history

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/chesscompare/internal/chesscom"
	apperrors "github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/models"
	"github.com/vytor/chesscompare/internal/pgn"
)

var (
	ErrMalformedGame   = stderrors.New("raw game is missing a mandatory key")
	ErrPlayerNotInGame = stderrors.New("tracked player is on neither side of the game")
)

// Normalize converts raw games into one record per game from username's side.
// The first malformed or untracked game aborts the call; rows are never
// silently dropped.
func Normalize(ctx context.Context, games []chesscom.MonthlyGame, username string) ([]models.GameRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("normalizer").WithField("username", username)

	records := make([]models.GameRecord, 0, len(games))
	for i := range games {
		rec, err := NormalizeGame(&games[i], username)
		if err != nil {
			log.WithFields(map[string]any{
				"index":        i,
				"url":          games[i].URL,
				"present_keys": strings.Join(presentKeys(&games[i]), ","),
			}).Error("failed to normalize game: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}

	log.Debug("normalized %d games", len(records))
	return records, nil
}

// NormalizeGame resolves which side username played and flattens g.
// The side match is exact and case-sensitive.
func NormalizeGame(g *chesscom.MonthlyGame, username string) (models.GameRecord, error) {
	if missing := missingKeys(g); len(missing) > 0 {
		return models.GameRecord{}, apperrors.NewMalformedGameError(g.URL, missing, ErrMalformedGame)
	}

	var own, opp *chesscom.Player
	var colour string
	var accuracy, opAccuracy *float64

	switch username {
	case g.White.Username:
		own, opp, colour = g.White, g.Black, models.ColourWhite
		if g.Accuracies != nil {
			accuracy, opAccuracy = ptr(g.Accuracies.White), ptr(g.Accuracies.Black)
		}
	case g.Black.Username:
		own, opp, colour = g.Black, g.White, models.ColourBlack
		if g.Accuracies != nil {
			accuracy, opAccuracy = ptr(g.Accuracies.Black), ptr(g.Accuracies.White)
		}
	default:
		return models.GameRecord{}, apperrors.NewUntrackedPlayerError(g.URL, username, ErrPlayerNotInGame)
	}

	result := chesscom.Outcome(own.Result)
	resultType := own.Result
	if result == models.ResultWin {
		resultType = opp.Result
	}

	eco := models.UndefinedECO
	if g.ECO != "" {
		eco = chesscom.LastSegment(g.ECO)
	}

	return models.GameRecord{
		ID:                 chesscom.LastSegment(g.URL),
		URL:                g.URL,
		Colour:             colour,
		TimeClass:          g.TimeClass,
		TimeControl:        g.TimeControl,
		Rated:              *g.Rated,
		Rating:             own.Rating,
		OpRating:           opp.Rating,
		RatingDifferential: own.Rating - opp.Rating,
		Opponent:           opp.Username,
		Result:             result,
		ResultType:         resultType,
		ECO:                eco,
		Accuracy:           accuracy,
		OpAccuracy:         opAccuracy,
		PlayedAt:           playedAt(g),
		Moves:              pgn.MoveCount(g.PGN),
	}, nil
}

// playedAt prefers the archive's end_time and falls back to the PGN headers.
func playedAt(g *chesscom.MonthlyGame) int64 {
	if g.EndTime != 0 {
		return g.EndTime
	}
	return pgn.EndTime(g.PGN)
}

// ResolveUsername returns the spelling of username used in games, found by a
// case-insensitive match on the first game naming it. Profile lookups return
// lowercase names while archives keep the player's display case.
func ResolveUsername(games []chesscom.MonthlyGame, username string) string {
	for i := range games {
		for _, p := range []*chesscom.Player{games[i].White, games[i].Black} {
			if p != nil && strings.EqualFold(p.Username, username) {
				return p.Username
			}
		}
	}
	return username
}

func missingKeys(g *chesscom.MonthlyGame) []string {
	var missing []string
	if g.URL == "" {
		missing = append(missing, "url")
	}
	if g.TimeClass == "" {
		missing = append(missing, "time_class")
	}
	if g.TimeControl == "" {
		missing = append(missing, "time_control")
	}
	if g.Rated == nil {
		missing = append(missing, "rated")
	}
	if g.White == nil {
		missing = append(missing, "white")
	}
	if g.Black == nil {
		missing = append(missing, "black")
	}
	return missing
}

func presentKeys(g *chesscom.MonthlyGame) []string {
	var keys []string
	add := func(ok bool, k string) {
		if ok {
			keys = append(keys, k)
		}
	}
	add(g.URL != "", "url")
	add(g.PGN != "", "pgn")
	add(g.TimeClass != "", "time_class")
	add(g.TimeControl != "", "time_control")
	add(g.Rated != nil, "rated")
	add(g.Rules != "", "rules")
	add(g.EndTime != 0, "end_time")
	add(g.ECO != "", "eco")
	add(g.Accuracies != nil, "accuracies")
	add(g.White != nil, "white")
	add(g.Black != nil, "black")
	return keys
}

func ptr(f float64) *float64 { return &f }
