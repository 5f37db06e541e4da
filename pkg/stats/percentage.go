// Package stats implements the group percentage calculation: the share of
// rows in a tabular dataset where a named column equals a target value,
// as a percentage rounded to two decimal places.
package stats

import (
	"math"

	"tabstat/pkg/errors"
)

// Rows is the tabular input of the calculator: an ordered collection of
// rows with named columns. Values are string, int64, float64, or nil.
type Rows interface {
	Len() int
	Columns() []string
	Value(i int, column string) interface{}
}

// Percentage computes 100 * count(rows where row[column] == target) / count(rows),
// rounded to two decimals. The result is in [0, 100].
//
// An unknown column yields ErrCodeColumnNotFound; an empty dataset yields
// ErrCodeEmptyDataset since the denominator would be zero. A target that
// matches no rows is not an error: the result is 0.00.
func Percentage(rows Rows, column string, target interface{}) (float64, error) {
	if !hasColumn(rows, column) {
		return 0, errors.ColumnNotFoundError(column, rows.Columns())
	}

	total := rows.Len()
	if total == 0 {
		return 0, errors.EmptyDatasetError()
	}

	matched := 0
	for i := 0; i < total; i++ {
		if equal(rows.Value(i, column), target) {
			matched++
		}
	}
	return round2(100 * float64(matched) / float64(total)), nil
}

// FromCounts computes the same percentage from two pre-computed counts,
// e.g. a filtered COUNT and a total COUNT issued against a SQL store.
func FromCounts(matched, total int64) (float64, error) {
	if total == 0 {
		return 0, errors.EmptyDatasetError()
	}
	if matched < 0 || matched > total {
		return 0, errors.ValidationError("matched", matched, "count outside [0, total]")
	}
	return round2(100 * float64(matched) / float64(total)), nil
}

func hasColumn(rows Rows, column string) bool {
	for _, name := range rows.Columns() {
		if name == column {
			return true
		}
	}
	return false
}

// equal compares exactly within the stored value's type: string equality
// for text, numeric equality within the column's numeric type. Values of
// different dynamic types never match, nor does nil (empty cell).
func equal(a, b interface{}) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	default:
		return false
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
