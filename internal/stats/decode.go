// Package stats turns the chess.com stats bundle into typed metric variants.
package stats

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/vytor/chesscompare/internal/chesscom"
	"github.com/vytor/chesscompare/internal/models"
)

const (
	MetricFIDE       = "fide"
	MetricPuzzleRush = "puzzle_rush"
	MetricTactics    = "tactics"
)

type ratingBlock struct {
	Rating *int `json:"rating"`
}

type recordBlock struct {
	Win  int `json:"win"`
	Loss int `json:"loss"`
	Draw int `json:"draw"`
}

type ratedMetric struct {
	Last   *ratingBlock `json:"last"`
	Best   *ratingBlock `json:"best"`
	Record *recordBlock `json:"record"`
}

type puzzleRushMetric struct {
	Best *struct {
		Score *int `json:"score"`
	} `json:"best"`
}

type tacticsMetric struct {
	Highest *ratingBlock `json:"highest"`
}

// MetricName strips the chess_ prefix chess.com puts on most keys.
func MetricName(key string) string {
	return strings.TrimPrefix(key, "chess_")
}

// Decode classifies every recognised key of raw once. Unknown or
// unrecognisably shaped keys are skipped. The result is sorted by metric.
func Decode(raw chesscom.Stats) []models.MetricStats {
	out := make([]models.MetricStats, 0, len(raw))
	for key, body := range raw {
		if m, ok := decodeOne(key, body); ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metric < out[j].Metric })
	return out
}

func decodeOne(key string, body json.RawMessage) (models.MetricStats, bool) {
	switch key {
	case MetricFIDE:
		var v float64
		if err := json.Unmarshal(body, &v); err != nil {
			return models.MetricStats{}, false
		}
		return models.MetricStats{Metric: MetricFIDE, Kind: models.KindSingleRating, Value: int(v)}, true

	case MetricPuzzleRush:
		var pr puzzleRushMetric
		if err := json.Unmarshal(body, &pr); err != nil || pr.Best == nil || pr.Best.Score == nil {
			return models.MetricStats{}, false
		}
		return models.MetricStats{Metric: MetricPuzzleRush, Kind: models.KindScoreOnly, BestScore: *pr.Best.Score}, true

	case MetricTactics:
		var tm tacticsMetric
		if err := json.Unmarshal(body, &tm); err != nil || tm.Highest == nil || tm.Highest.Rating == nil {
			return models.MetricStats{}, false
		}
		return models.MetricStats{Metric: MetricTactics, Kind: models.KindSingleRating, Value: *tm.Highest.Rating}, true
	}

	var rm ratedMetric
	if err := json.Unmarshal(body, &rm); err != nil || rm.Record == nil {
		return models.MetricStats{}, false
	}
	m := models.MetricStats{
		Metric: MetricName(key),
		Kind:   models.KindRatingRecord,
		Wins:   rm.Record.Win,
		Draws:  rm.Record.Draw,
		Losses: rm.Record.Loss,
	}
	if rm.Last != nil && rm.Last.Rating != nil {
		m.Current = *rm.Last.Rating
	}
	if rm.Best != nil && rm.Best.Rating != nil {
		best := *rm.Best.Rating
		m.Best = &best
	}
	return m, true
}

// CurrentVsBest lists current and peak rating for every record-bearing metric.
func CurrentVsBest(metrics []models.MetricStats) []models.RatingRow {
	rows := make([]models.RatingRow, 0, len(metrics))
	for _, m := range metrics {
		if m.Kind != models.KindRatingRecord {
			continue
		}
		current := m.Current
		rows = append(rows, models.RatingRow{Metric: m.Metric, Current: &current, Best: m.Best})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Metric < rows[j].Metric })
	return rows
}

// Index keys metrics by name.
func Index(metrics []models.MetricStats) map[string]models.MetricStats {
	idx := make(map[string]models.MetricStats, len(metrics))
	for _, m := range metrics {
		idx[m.Metric] = m
	}
	return idx
}
