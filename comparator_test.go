package sorttable

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func recordIDs(records []Record) []any {
	ids := make([]any, len(records))
	for i, r := range records {
		ids[i] = r["id"]
	}
	return ids
}

func TestMakeComparator_Numeric(t *testing.T) {
	records := []Record{
		{"id": 1, "price": 30},
		{"id": 2, "price": 10},
		{"id": 3, "price": 20},
	}

	asc, err := MakeComparator("price", Numeric, Ascending)
	require.NoError(t, err)
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, asc)
	require.Equal(t, []any{2, 3, 1}, recordIDs(sorted))

	desc, err := MakeComparator("price", Numeric, Descending)
	require.NoError(t, err)
	sorted = slices.Clone(records)
	slices.SortStableFunc(sorted, desc)
	require.Equal(t, []any{1, 3, 2}, recordIDs(sorted))
}

func TestMakeComparator_NumericOrdering(t *testing.T) {
	values := []any{5, 3.5, json.Number("12"), "7", int64(-2), uint8(9), float32(0.25), 100}
	records := make([]Record, len(values))
	for i, v := range values {
		records[i] = Record{"id": i, "n": v}
	}

	asc := slices.Clone(records)
	require.NoError(t, SortRecords(asc, Columns{{ID: "n", Sortable: true, Kind: Numeric}}, SortState{ColumnID: "n"}))
	for i := 1; i < len(asc); i++ {
		prev, _ := Float(asc[i-1]["n"])
		cur, _ := Float(asc[i]["n"])
		require.LessOrEqual(t, prev, cur, "non-decreasing at %d", i)
	}

	desc := slices.Clone(records)
	require.NoError(t, SortRecords(desc, Columns{{ID: "n", Sortable: true, Kind: Numeric}}, SortState{ColumnID: "n", Direction: Descending}))
	reversed := slices.Clone(asc)
	slices.Reverse(reversed)
	require.Equal(t, recordIDs(reversed), recordIDs(desc), "distinct keys: descending is the reverse of ascending")
}

func TestMakeComparator_NumericEqualKeysAreStable(t *testing.T) {
	columns := Columns{{ID: "price", Sortable: true, Kind: Numeric}}
	records := []Record{
		{"id": 1, "price": 10},
		{"id": 2, "price": 5},
		{"id": 3, "price": 10},
	}

	asc := slices.Clone(records)
	require.NoError(t, SortRecords(asc, columns, SortState{ColumnID: "price"}))
	require.Equal(t, []any{2, 1, 3}, recordIDs(asc))

	desc := slices.Clone(records)
	require.NoError(t, SortRecords(desc, columns, SortState{ColumnID: "price", Direction: Descending}))
	require.Equal(t, []any{1, 3, 2}, recordIDs(desc))
}

func TestMakeComparator_NumericMissingValues(t *testing.T) {
	compare, err := MakeComparator("n", Numeric, Ascending)
	require.NoError(t, err)

	require.Equal(t, -1, compare(Record{}, Record{"n": 1}))
	require.Equal(t, 1, compare(Record{"n": 1}, Record{"n": "abc"}))
	require.Equal(t, 0, compare(Record{"n": nil}, Record{"n": "abc"}))
	require.Equal(t, 0, compare(Record{"n": 2}, Record{"n": json.Number("2")}))
}

func TestMakeComparator_Textual(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		direction Direction
		want      []string
	}{
		{name: "latin upper first", values: []string{"b", "a", "B", "A"}, direction: Ascending, want: []string{"A", "a", "B", "b"}},
		{name: "latin descending", values: []string{"b", "a", "B", "A"}, direction: Descending, want: []string{"b", "B", "a", "A"}},
		{name: "cyrillic upper first", values: []string{"абрикос", "яблоко", "Абрикос"}, direction: Ascending, want: []string{"Абрикос", "абрикос", "яблоко"}},
		{name: "prefix", values: []string{"Tablet", "Tab", "tab"}, direction: Ascending, want: []string{"Tab", "tab", "Tablet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compare, err := MakeComparator("title", Textual, tt.direction)
			require.NoError(t, err)
			records := make([]Record, len(tt.values))
			for i, v := range tt.values {
				records[i] = Record{"title": v}
			}
			slices.SortStableFunc(records, compare)
			got := make([]string, len(records))
			for i, r := range records {
				got[i] = r["title"].(string)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMakeComparator_KindNone(t *testing.T) {
	_, err := MakeComparator("images", KindNone, Ascending)
	require.ErrorIs(t, err, ErrNotSortable)
}

func TestSortRecords(t *testing.T) {
	columns := Columns{{ID: "price", Sortable: true, Kind: Numeric}}
	records := []Record{{"id": 1, "price": 2}, {"id": 2, "price": 1}}

	require.NoError(t, SortRecords(records, columns, SortState{}))
	require.Equal(t, []any{1, 2}, recordIDs(records), "empty sort state keeps insertion order")

	err := SortRecords(records, columns, SortState{ColumnID: "unknown"})
	require.ErrorIs(t, err, ErrUnknownColumn)
}

func TestCollator_Compare(t *testing.T) {
	c := NewCollator(DefaultLocales...)
	require.Equal(t, 0, c.Compare("abc", "abc"))
	require.Equal(t, -1, c.Compare("Abc", "abc"))
	require.Equal(t, 1, c.Compare("abc", "Abc"))
	require.Equal(t, -1, c.Compare("abc", "abd"))
	require.Equal(t, -1, c.Compare("aBc", "abc"))
}
