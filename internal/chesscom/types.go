package chesscom

import "encoding/json"

// Profile is the subset of /player/{username} the comparator reads.
type Profile struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Country  string `json:"country"` // URL, e.g. https://api.chess.com/pub/country/GB
	URL      string `json:"url"`
	Status   string `json:"status"`
	Joined   int64  `json:"joined"`
}

// Stats is the raw /player/{username}/stats body. Each metric is decoded
// later because the shapes differ per key.
type Stats map[string]json.RawMessage

// MonthlyGame is one finished game from a monthly archive. Pointer fields are
// mandatory upstream; nil means the key was absent.
type MonthlyGame struct {
	URL         string      `json:"url"`
	PGN         string      `json:"pgn,omitempty"`
	TimeClass   string      `json:"time_class"`
	TimeControl string      `json:"time_control"`
	Rated       *bool       `json:"rated"`
	Rules       string      `json:"rules,omitempty"`
	EndTime     int64       `json:"end_time,omitempty"`
	ECO         string      `json:"eco,omitempty"`
	Accuracies  *Accuracies `json:"accuracies,omitempty"`
	White       *Player     `json:"white"`
	Black       *Player     `json:"black"`
}

type Player struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Result   string `json:"result"`
}

type Accuracies struct {
	White float64 `json:"white"`
	Black float64 `json:"black"`
}

type Puzzle struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image"`
	FEN   string `json:"fen,omitempty"`
}

// FallbackPuzzle is served when the daily puzzle endpoint is unavailable.
var FallbackPuzzle = Puzzle{
	Title: "Daily Puzzle",
	URL:   "https://www.chess.com/daily-chess-puzzle/2024-10-25",
	Image: "https://www.chess.com/dynboard?fen=2n1k3/7N/8/1pPpB2p/3Pp1pP/P1q3P1/8/5RK1%20w%20-%20-%200%201&size=2",
}
