package models

const (
	ColourWhite = "white"
	ColourBlack = "black"

	ResultWin  = "win"
	ResultDraw = "draw"
	ResultLoss = "loss"

	// UndefinedECO tags games that arrived without an opening code.
	UndefinedECO = "Undefined"
)

// GameRecord is one archived game seen from the tracked player's side.
type GameRecord struct {
	ID                 string   `json:"id"`
	URL                string   `json:"url"`
	Colour             string   `json:"colour"`
	TimeClass          string   `json:"time_class"`
	TimeControl        string   `json:"time_control"`
	Rated              bool     `json:"rated"`
	Rating             int      `json:"rating"`
	OpRating           int      `json:"op_rating"`
	RatingDifferential int      `json:"rating_differential"`
	Opponent           string   `json:"opponent"`
	Result             string   `json:"result"`
	ResultType         string   `json:"result_type"`
	ECO                string   `json:"eco"`
	Accuracy           *float64 `json:"accuracy"`
	OpAccuracy         *float64 `json:"op_accuracy"`
	PlayedAt           int64    `json:"played_at"`
	Moves              int      `json:"moves"`
}

// AccuracySummary holds headline accuracy figures over games that carry one.
type AccuracySummary struct {
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Games int     `json:"games"`
}
