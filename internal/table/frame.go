package table

import (
	"cmp"
	"fmt"
	"slices"

	apperrors "github.com/vytor/chesscompare/internal/errors"
)

func (f *Frame) Len() int { return len(f.Rows) }

// Value returns column of row i.
func (f *Frame) Value(i int, column string) (float64, bool) {
	c := slices.Index(f.Columns, column)
	if c < 0 || i < 0 || i >= len(f.Rows) {
		return 0, false
	}
	return f.Rows[i].Values[c], true
}

// SortBy reorders rows by a dimension or a value column. The sort is stable.
func (f *Frame) SortBy(column string, ascending bool) error {
	var less func(a, b Row) int
	if c := slices.Index(f.Columns, column); c >= 0 {
		less = func(a, b Row) int { return cmp.Compare(a.Values[c], b.Values[c]) }
	} else if d := slices.Index(f.Dimensions, Dimension(column)); d >= 0 {
		less = func(a, b Row) int { return compareValues(a.Key[d], b.Key[d]) }
	} else {
		return apperrors.NewValidationError("sort", fmt.Sprintf("unknown column %q", column))
	}

	if ascending {
		slices.SortStableFunc(f.Rows, less)
	} else {
		slices.SortStableFunc(f.Rows, func(a, b Row) int { return less(b, a) })
	}
	return nil
}

// Head keeps at most the first n rows.
func (f *Frame) Head(n int) {
	if n >= 0 && n < len(f.Rows) {
		f.Rows = f.Rows[:n]
	}
}

// Records flattens the frame into one map per row, keyed by dimension and
// column name.
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, 0, len(f.Rows))
	for _, r := range f.Rows {
		m := make(map[string]any, len(f.Dimensions)+len(f.Columns))
		for i, d := range f.Dimensions {
			m[string(d)] = r.Key[i]
		}
		for i, c := range f.Columns {
			m[c] = r.Values[i]
		}
		out = append(out, m)
	}
	return out
}
