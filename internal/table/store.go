// Package table holds a player's normalized game history and answers
// grouped, ranked and summary questions about it. A Table is immutable after
// New; every method only reads it.
package table

import (
	"math"

	"github.com/vytor/chesscompare/internal/models"
)

type Table struct {
	username string
	records  []models.GameRecord
}

// New takes a copy of records.
func New(username string, records []models.GameRecord) *Table {
	rows := make([]models.GameRecord, len(records))
	copy(rows, records)
	return &Table{username: username, records: rows}
}

func (t *Table) Username() string { return t.username }

func (t *Table) Len() int { return len(t.records) }

// Records returns a copy of the rows in table order.
func (t *Table) Records() []models.GameRecord {
	out := make([]models.GameRecord, len(t.records))
	copy(out, t.records)
	return out
}

// AccuracyStats summarizes accuracy over the rows that have one. ok is false
// when no row does.
func (t *Table) AccuracyStats() (summary models.AccuracySummary, ok bool) {
	var sum float64
	summary.Max = math.Inf(-1)
	summary.Min = math.Inf(1)

	for _, r := range t.records {
		if r.Accuracy == nil {
			continue
		}
		a := *r.Accuracy
		sum += a
		summary.Games++
		summary.Max = math.Max(summary.Max, a)
		summary.Min = math.Min(summary.Min, a)
	}

	if summary.Games == 0 {
		return models.AccuracySummary{}, false
	}
	summary.Avg = round(sum/float64(summary.Games), 2)
	return summary, true
}

// RatingPoint is the tracked player's rating after one game.
type RatingPoint struct {
	ID       string `json:"id"`
	PlayedAt int64  `json:"played_at"`
	Rating   int    `json:"rating"`
}

// RatingHistory lists the player's ratings for games of timeClass, in table
// order.
func (t *Table) RatingHistory(timeClass string) []RatingPoint {
	points := []RatingPoint{}
	for _, r := range t.records {
		if r.TimeClass != timeClass {
			continue
		}
		points = append(points, RatingPoint{ID: r.ID, PlayedAt: r.PlayedAt, Rating: r.Rating})
	}
	return points
}

func (t *Table) filter(keep func(*models.GameRecord) bool) []*models.GameRecord {
	out := make([]*models.GameRecord, 0, len(t.records))
	for i := range t.records {
		if keep(&t.records[i]) {
			out = append(out, &t.records[i])
		}
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
