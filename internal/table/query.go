package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/models"
)

// Fact is the quantity a query measures per group.
type Fact string

const (
	FactCount    Fact = "count"
	FactAccuracy Fact = "accuracy"
	FactResult   Fact = "result"
)

// Dimension is a column rows can be grouped by.
type Dimension string

const (
	DimColour    Dimension = "colour"
	DimTimeClass Dimension = "time_class"
	DimOpponent  Dimension = "opponent"
	DimECO       Dimension = "eco"
	DimOpRating  Dimension = "op_rating"
	DimResult    Dimension = "result"
)

// Output column names.
const (
	ColGamesPlayed = "games_played"
	ColAccuracy    = "accuracy"
	ColWinPc       = "win_pc"
	ColDrawPc      = "draw_pc"
	ColLossPc      = "loss_pc"
)

var dimensions = map[Dimension]struct{}{
	DimColour: {}, DimTimeClass: {}, DimOpponent: {}, DimECO: {}, DimOpRating: {}, DimResult: {},
}

// Dimensions lists every groupable column.
func Dimensions() []Dimension {
	return []Dimension{DimColour, DimTimeClass, DimOpponent, DimECO, DimOpRating, DimResult}
}

const ratingBucket = 100

// Row is one group: Key holds the dimension values in query order (string,
// or int for op_rating), Values the fact columns in Frame.Columns order.
type Row struct {
	Key    []any     `json:"key"`
	Values []float64 `json:"values"`
}

// Frame is an aggregated view of a table.
type Frame struct {
	Fact       Fact        `json:"fact"`
	Dimensions []Dimension `json:"dimensions"`
	Columns    []string    `json:"columns"`
	Rows       []Row       `json:"rows"`
}

type group struct {
	key  []any
	rows []*models.GameRecord
}

// Query groups the table by dims and aggregates fact per group.
//
//	count:    games_played, descending
//	accuracy: mean accuracy over rows that have one, descending, except that
//	          a leading op_rating dimension keeps ascending bucket order
//	result:   win_pc, draw_pc, loss_pc in ascending key order
//
// op_rating is bucketed down to the nearest hundred before grouping. A
// filter that leaves no rows yields an empty frame.
func (t *Table) Query(fact Fact, dims []Dimension, ratedOnly bool) (*Frame, error) {
	if err := validate(fact, dims); err != nil {
		return nil, err
	}

	rows := t.filter(func(r *models.GameRecord) bool {
		if ratedOnly && !r.Rated {
			return false
		}
		return fact != FactAccuracy || r.Accuracy != nil
	})
	groups := groupBy(rows, dims)

	frame := &Frame{Fact: fact, Dimensions: slices.Clone(dims), Rows: make([]Row, 0, len(groups))}
	switch fact {
	case FactCount:
		frame.Columns = []string{ColGamesPlayed}
		for _, g := range groups {
			frame.Rows = append(frame.Rows, Row{Key: g.key, Values: []float64{float64(len(g.rows))}})
		}
		sortByValue(frame.Rows, 0)

	case FactAccuracy:
		frame.Columns = []string{ColAccuracy}
		for _, g := range groups {
			var sum float64
			for _, r := range g.rows {
				sum += *r.Accuracy
			}
			frame.Rows = append(frame.Rows, Row{Key: g.key, Values: []float64{round(sum/float64(len(g.rows)), 2)}})
		}
		if dims[0] != DimOpRating {
			sortByValue(frame.Rows, 0)
		}

	case FactResult:
		frame.Columns = []string{ColWinPc, ColDrawPc, ColLossPc}
		for _, g := range groups {
			var win, draw, loss int
			for _, r := range g.rows {
				switch r.Result {
				case models.ResultWin:
					win++
				case models.ResultDraw:
					draw++
				default:
					loss++
				}
			}
			n := float64(len(g.rows))
			frame.Rows = append(frame.Rows, Row{Key: g.key, Values: []float64{
				round(float64(win)/n*100, 1),
				round(float64(draw)/n*100, 1),
				round(float64(loss)/n*100, 1),
			}})
		}
	}
	return frame, nil
}

// Everything inner-joins the count, accuracy and result frames for dims,
// keeping count order. Groups without any accuracy data are dropped.
func (t *Table) Everything(dims []Dimension, ratedOnly bool) (*Frame, error) {
	if slices.Contains(dims, DimResult) {
		return nil, apperrors.NewValidationError("dimensions", "result cannot be a dimension of the combined view")
	}
	frames := make([]*Frame, 0, 3)
	for _, fact := range []Fact{FactCount, FactAccuracy, FactResult} {
		f, err := t.Query(fact, dims, ratedOnly)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return join(frames...), nil
}

func join(frames ...*Frame) *Frame {
	base := frames[0]
	out := &Frame{Fact: base.Fact, Dimensions: base.Dimensions, Columns: slices.Clone(base.Columns)}

	indexes := make([]map[string][]float64, len(frames))
	for i, f := range frames[1:] {
		out.Columns = append(out.Columns, f.Columns...)
		idx := make(map[string][]float64, len(f.Rows))
		for _, r := range f.Rows {
			idx[keyString(r.Key)] = r.Values
		}
		indexes[i+1] = idx
	}

	out.Rows = make([]Row, 0, len(base.Rows))
rows:
	for _, r := range base.Rows {
		values := slices.Clone(r.Values)
		k := keyString(r.Key)
		for _, idx := range indexes[1:] {
			v, ok := idx[k]
			if !ok {
				continue rows
			}
			values = append(values, v...)
		}
		out.Rows = append(out.Rows, Row{Key: r.Key, Values: values})
	}
	return out
}

func validate(fact Fact, dims []Dimension) error {
	switch fact {
	case FactCount, FactAccuracy, FactResult:
	default:
		return apperrors.NewValidationError("fact", fmt.Sprintf("unknown fact %q", fact))
	}
	if len(dims) == 0 {
		return apperrors.NewValidationError("dimensions", "at least one dimension is required")
	}
	seen := make(map[Dimension]struct{}, len(dims))
	for _, d := range dims {
		if _, ok := dimensions[d]; !ok {
			return apperrors.NewValidationError("dimensions", fmt.Sprintf("unknown dimension %q", d))
		}
		if _, dup := seen[d]; dup {
			return apperrors.NewValidationError("dimensions", fmt.Sprintf("duplicate dimension %q", d))
		}
		seen[d] = struct{}{}
		if d == DimResult && fact == FactResult {
			return apperrors.NewValidationError("dimensions", "result cannot group the result fact")
		}
	}
	return nil
}

// groupBy returns one group per distinct key tuple, in ascending key order.
func groupBy(rows []*models.GameRecord, dims []Dimension) []group {
	index := map[string]int{}
	var groups []group
	for _, r := range rows {
		key := make([]any, len(dims))
		for i, d := range dims {
			key[i] = keyValue(r, d)
		}
		k := keyString(key)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: key})
		}
		groups[i].rows = append(groups[i].rows, r)
	}
	slices.SortStableFunc(groups, func(a, b group) int { return compareKeys(a.key, b.key) })
	return groups
}

func keyValue(r *models.GameRecord, d Dimension) any {
	switch d {
	case DimColour:
		return r.Colour
	case DimTimeClass:
		return r.TimeClass
	case DimOpponent:
		return r.Opponent
	case DimECO:
		return r.ECO
	case DimOpRating:
		return BucketRating(r.OpRating)
	case DimResult:
		return r.Result
	}
	return nil
}

// BucketRating rounds rating down to a multiple of 100.
func BucketRating(rating int) int {
	b := rating / ratingBucket * ratingBucket
	if rating < 0 && rating%ratingBucket != 0 {
		b -= ratingBucket
	}
	return b
}

func keyString(key []any) string {
	parts := make([]string, len(key))
	for i, v := range key {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\x1f")
}

func compareKeys(a, b []any) int {
	for i := range a {
		if c := compareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	}
	return 0
}

func sortByValue(rows []Row, col int) {
	slices.SortStableFunc(rows, func(a, b Row) int { return cmp.Compare(b.Values[col], a.Values[col]) })
}
