package sorttable

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrNotSortable is returned for columns without a value kind.
	ErrNotSortable = errors.New("column is not sortable")

	// ErrUnknownColumn is returned for column ids
	// that are not part of the table columns.
	ErrUnknownColumn = errors.New("unknown column")
)

// Comparator orders two records and returns -1, 0, or +1.
type Comparator func(a, b Record) int

// MakeComparator returns a Comparator for the values
// of columnID interpreted as kind, ordered in direction.
//
// Numeric values are ordered by their difference.
// Values that can't be interpreted as numbers
// are ordered before all numbers and equal to each other.
// Textual values are ordered by DefaultCollator.
// Descending negates the ascending result.
func MakeComparator(columnID string, kind ValueKind, direction Direction) (Comparator, error) {
	var ascending Comparator
	switch kind {
	case Numeric:
		ascending = func(a, b Record) int {
			return compareNumbers(a[columnID], b[columnID])
		}
	case Textual:
		collator := DefaultCollator()
		ascending = func(a, b Record) int {
			return collator.Compare(textValue(a[columnID]), textValue(b[columnID]))
		}
	case KindNone:
		return nil, fmt.Errorf("%w: %q", ErrNotSortable, columnID)
	default:
		return nil, fmt.Errorf("%w: %q has invalid %s", ErrNotSortable, columnID, kind)
	}
	if direction == Descending {
		return func(a, b Record) int { return -ascending(a, b) }, nil
	}
	return ascending, nil
}

// SortRecords sorts records in place by the column
// and direction of the sort state.
// The sort is stable: records with equal keys
// keep their relative order in both directions.
// An empty sort state leaves the records unchanged.
func SortRecords(records []Record, columns Columns, state SortState) error {
	if state.IsEmpty() {
		return nil
	}
	col, ok := columns.Column(state.ColumnID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, state.ColumnID)
	}
	compare, err := MakeComparator(col.ID, col.Kind, state.Direction)
	if err != nil {
		return err
	}
	slices.SortStableFunc(records, compare)
	return nil
}

func compareNumbers(a, b any) int {
	x, xOK := Float(a)
	y, yOK := Float(b)
	switch {
	case !xOK && !yOK:
		return 0
	case !xOK:
		return -1
	case !yOK:
		return 1
	}
	return cmp.Compare(x, y)
}

// Float converts numeric values, json.Number,
// and numeric strings to float64.
// NaN is reported as not convertible.
func Float(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return 0, false
		}
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func textValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
