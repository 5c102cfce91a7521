package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/models"
)

// DefaultTopN is the leaderboard size used when callers do not pick one.
const DefaultTopN = 10

type sortKey struct {
	numeric func(*models.GameRecord) *float64
	text    func(*models.GameRecord) string
}

func intKey(f func(*models.GameRecord) int) sortKey {
	return sortKey{numeric: func(r *models.GameRecord) *float64 {
		v := float64(f(r))
		return &v
	}}
}

var sortable = map[string]sortKey{
	"rating":              intKey(func(r *models.GameRecord) int { return r.Rating }),
	"op_rating":           intKey(func(r *models.GameRecord) int { return r.OpRating }),
	"rating_differential": intKey(func(r *models.GameRecord) int { return r.RatingDifferential }),
	"played_at":           intKey(func(r *models.GameRecord) int { return int(r.PlayedAt) }),
	"moves":               intKey(func(r *models.GameRecord) int { return r.Moves }),
	"accuracy":            {numeric: func(r *models.GameRecord) *float64 { return r.Accuracy }},
	"op_accuracy":         {numeric: func(r *models.GameRecord) *float64 { return r.OpAccuracy }},
	"opponent":            {text: func(r *models.GameRecord) string { return r.Opponent }},
	"eco":                 {text: func(r *models.GameRecord) string { return r.ECO }},
	"time_class":          {text: func(r *models.GameRecord) string { return r.TimeClass }},
	"colour":              {text: func(r *models.GameRecord) string { return r.Colour }},
	"id":                  {text: func(r *models.GameRecord) string { return r.ID }},
}

// SortableColumns lists the columns TopN accepts, sorted.
func SortableColumns() []string {
	cols := make([]string, 0, len(sortable))
	for c := range sortable {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

// TopN returns up to n won games ordered by column. Rows where column is
// null sort last in either direction. Fewer than n wins returns them all.
func (t *Table) TopN(column string, n int, ascending, ratedOnly bool) ([]models.GameRecord, error) {
	key, ok := sortable[column]
	if !ok {
		return nil, apperrors.NewValidationError("column", fmt.Sprintf("cannot rank by %q; choose one of %s", column, strings.Join(SortableColumns(), ", ")))
	}
	if n < 0 {
		return nil, apperrors.NewValidationError("n", "must not be negative")
	}

	wins := t.filter(func(r *models.GameRecord) bool {
		return r.Result == models.ResultWin && (!ratedOnly || r.Rated)
	})

	dir := 1
	if !ascending {
		dir = -1
	}
	slices.SortStableFunc(wins, func(a, b *models.GameRecord) int {
		if key.text != nil {
			return dir * strings.Compare(key.text(a), key.text(b))
		}
		av, bv := key.numeric(a), key.numeric(b)
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			return 1
		case bv == nil:
			return -1
		}
		return dir * cmp.Compare(*av, *bv)
	})

	if len(wins) > n {
		wins = wins[:n]
	}
	out := make([]models.GameRecord, len(wins))
	for i, r := range wins {
		out[i] = *r
	}
	return out, nil
}
