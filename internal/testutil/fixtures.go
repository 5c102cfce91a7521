package testutil

import (
	"github.com/vytor/chesscompare/internal/chesscom"
	"github.com/vytor/chesscompare/internal/models"
)

// RawGame builds a well-formed archived game between white and black.
func RawGame(id, white, whiteResult string, whiteRating int, black, blackResult string, blackRating int) chesscom.MonthlyGame {
	rated := true
	return chesscom.MonthlyGame{
		URL:         "https://www.chess.com/game/live/" + id,
		TimeClass:   "blitz",
		TimeControl: "180",
		Rated:       &rated,
		Rules:       "chess",
		ECO:         "https://www.chess.com/openings/Italian-Game",
		White:       &chesscom.Player{Username: white, Rating: whiteRating, Result: whiteResult},
		Black:       &chesscom.Player{Username: black, Rating: blackRating, Result: blackResult},
	}
}

// WithAccuracies returns g with accuracy analysis attached.
func WithAccuracies(g chesscom.MonthlyGame, white, black float64) chesscom.MonthlyGame {
	g.Accuracies = &chesscom.Accuracies{White: white, Black: black}
	return g
}

// Record builds a normalized game for table tests.
func Record(id, result string, opRating int, accuracy *float64) models.GameRecord {
	return models.GameRecord{
		ID:                 id,
		Colour:             models.ColourWhite,
		TimeClass:          "blitz",
		TimeControl:        "180",
		Rated:              true,
		Rating:             1500,
		OpRating:           opRating,
		RatingDifferential: 1500 - opRating,
		Opponent:           "opp" + id,
		Result:             result,
		ECO:                models.UndefinedECO,
		Accuracy:           accuracy,
	}
}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
