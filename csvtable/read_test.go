package csvtable

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	sorttable "github.com/domonda/go-sorttable"
)

var testColumns = sorttable.Columns{
	{ID: "title", Title: "Name", Sortable: true, Kind: sorttable.Textual},
	{ID: "price", Title: "Price", Sortable: true, Kind: sorttable.Numeric},
}

func TestReadRecords(t *testing.T) {
	data := []byte("id;title;price\r\np1;Banana;2.5\r\np2;apple; 10 \r\np3;Cherry;\r\n")
	records, err := ReadRecords(data, NewFormat(";"), testColumns)
	require.NoError(t, err)
	require.Equal(t, []sorttable.Record{
		{"id": "p1", "title": "Banana", "price": 2.5},
		{"id": "p2", "title": "apple", "price": 10.0},
		{"id": "p3", "title": "Cherry", "price": nil},
	}, records)

	err = sorttable.SortRecords(records, testColumns, sorttable.SortState{ColumnID: "price", Direction: sorttable.Descending})
	require.NoError(t, err)
	require.Equal(t, "p2", records[0].ID())
}

func TestReadRecords_DetectFormat(t *testing.T) {
	records, err := ReadRecords([]byte("id,title,price\n1,Apple,3\n"), nil, testColumns)
	require.NoError(t, err)
	require.Equal(t, []sorttable.Record{{"id": "1", "title": "Apple", "price": 3.0}}, records)
}

func TestReadRecords_Errors(t *testing.T) {
	_, err := ReadRecords([]byte("id;title\r\n1;Apple\r\n"), NewFormat(";"), testColumns)
	require.ErrorContains(t, err, `numeric column "price"`)

	_, err = ReadRecords([]byte("id;price\r\n1;cheap\r\n"), NewFormat(";"), testColumns)
	require.ErrorContains(t, err, `line 2 column "price"`)
}

func TestRowsToRecords(t *testing.T) {
	records, err := RowsToRecords(nil, testColumns)
	require.NoError(t, err)
	require.Empty(t, records)

	// Short rows get empty strings, empty header fields are ignored
	records, err = RowsToRecords([][]string{{"id", "", "title"}, {"1", "x"}}, nil)
	require.NoError(t, err)
	require.Equal(t, []sorttable.Record{{"id": "1", "title": ""}}, records)
}

func TestWriter_WriteRecords(t *testing.T) {
	ctx := context.Background()
	columns := sorttable.Columns{
		{ID: "title", Title: "Name"},
		{ID: "price", Title: "Price", Formatter: sorttable.PrintfCellFormatter("%.2f")},
		{ID: "note", Title: "Note"},
	}
	records := []sorttable.Record{
		{"id": "1", "title": "Apple", "price": 1.5, "note": nil},
		{"id": "2", "title": "Pear; green", "price": 2.0, "note": `say "hi"`},
	}

	tests := []struct {
		name   string
		writer *Writer
		want   string
	}{
		{
			name:   "default",
			writer: NewWriter(),
			want: "" +
				"title;price;note\r\n" +
				"Apple;1.50;\r\n" +
				`"Pear; green";2.00;"say ""hi"""` + "\r\n",
		},
		{
			name:   "no header comma",
			writer: NewWriter().WithHeaderRow(false).WithDelimiter(',').WithNewLine("\n").WithNilValue("-"),
			want: "" +
				"Apple,1.50,-\n" +
				`Pear; green,2.00,"say ""hi"""` + "\n",
		},
		{
			name:   "quote all",
			writer: NewWriter().WithHeaderRow(false).WithQuoteAllFields(true),
			want: "" +
				`"Apple";"1.50";""` + "\r\n" +
				`"Pear; green";"2.00";"say ""hi"""` + "\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := tt.writer.WriteRecords(ctx, &buf, columns, records)
			require.NoError(t, err)
			require.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNewWriterWithFormat(t *testing.T) {
	w, err := NewWriterWithFormat(NewFormat("\t"))
	require.NoError(t, err)
	require.Equal(t, '\t', w.Delimiter())
	require.Equal(t, "\r\n", w.NewLine())

	_, err = NewWriterWithFormat(&Format{Encoding: "UTF-16LE", Separator: ",", Newline: "\n"})
	require.Error(t, err)
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		str     string
		want    float64
		wantErr bool
	}{
		{str: "1.5", want: 1.5},
		{str: "-2", want: -2},
		{str: "1,5", want: 1.5},
		{str: "1.234,5", want: 1234.5},
		{str: "1.234.567,89", want: 1234567.89},
		{str: "1,234.5", want: 1234.5},
		{str: "1,234,567.5", want: 1234567.5},
		{str: "1,2,3", wantErr: true},
		{str: "1.2,3,4", wantErr: true},
		{str: "abc", wantErr: true},
		{str: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			got, err := ParseFloat(tt.str)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
