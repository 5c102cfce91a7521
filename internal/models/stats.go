package models

// MetricKind tags which fields of MetricStats are populated.
type MetricKind string

const (
	KindRatingRecord MetricKind = "rating_record"
	KindScoreOnly    MetricKind = "score_only"
	KindSingleRating MetricKind = "single_rating"
)

// MetricStats is one decoded entry of the stats bundle.
//
//	RatingRecord: Current, Best (optional), Wins, Draws, Losses
//	ScoreOnly:    BestScore
//	SingleRating: Value
type MetricStats struct {
	Metric string     `json:"metric"`
	Kind   MetricKind `json:"kind"`

	Current int  `json:"current,omitempty"`
	Best    *int `json:"best,omitempty"`
	Wins    int  `json:"wins,omitempty"`
	Draws   int  `json:"draws,omitempty"`
	Losses  int  `json:"losses,omitempty"`

	BestScore int `json:"best_score,omitempty"`
	Value     int `json:"value,omitempty"`
}

// TotalGames is only meaningful for RatingRecord metrics.
func (m MetricStats) TotalGames() int {
	return m.Wins + m.Draws + m.Losses
}

// RatingRow is one line of the current-vs-best table.
type RatingRow struct {
	Metric  string `json:"metric"`
	Current *int   `json:"current"`
	Best    *int   `json:"best"`
}

// ComparisonRow is one line of the user-vs-other table.
type ComparisonRow struct {
	Metric string `json:"metric"`
	User   int    `json:"user"`
	Other  int    `json:"other"`
}

// Comparison is the full user-vs-other result.
type Comparison struct {
	User  string          `json:"user"`
	Other string          `json:"other"`
	Rows  []ComparisonRow `json:"rows"`
}
