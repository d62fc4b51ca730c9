package csvtable

import (
	"fmt"
	"strings"

	sorttable "github.com/domonda/go-sorttable"
)

// ReadRecords parses CSV data with a header row
// and returns one record per following row.
//
// The header fields are the column ids of the record values.
// Values of Numeric columns are converted to float64
// accepting comma decimal separators,
// empty numeric fields become nil.
// If format is nil then the format is detected.
func ReadRecords(data []byte, format *Format, columns sorttable.Columns) ([]sorttable.Record, error) {
	var (
		rows [][]string
		err  error
	)
	if format == nil {
		rows, _, err = ParseDetectFormat(data)
	} else {
		rows, err = Parse(data, format)
	}
	if err != nil {
		return nil, err
	}
	return RowsToRecords(rows, columns)
}

// RowsToRecords converts parsed CSV rows with a header row to records.
// See ReadRecords.
func RowsToRecords(rows [][]string, columns sorttable.Columns) ([]sorttable.Record, error) {
	if len(rows) == 0 {
		return []sorttable.Record{}, nil
	}
	header := make([]string, len(rows[0]))
	for i, title := range rows[0] {
		header[i] = strings.TrimSpace(title)
	}
	for _, col := range columns {
		if col.Kind == sorttable.Numeric && !containsString(header, col.ID) {
			return nil, fmt.Errorf("numeric column %q missing in CSV header", col.ID)
		}
	}

	records := make([]sorttable.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record := make(sorttable.Record, len(header))
		for col, id := range header {
			if id == "" {
				continue
			}
			var field string
			if col < len(row) {
				field = row[col]
			}
			value, err := parseValue(field, columns, id)
			if err != nil {
				// Line numbers are 1-based and the header is the first line
				return nil, fmt.Errorf("line %d column %q: %w", i+2, id, err)
			}
			record[id] = value
		}
		records = append(records, record)
	}
	return records, nil
}

func parseValue(field string, columns sorttable.Columns, id string) (any, error) {
	col, ok := columns.Column(id)
	if !ok || col.Kind != sorttable.Numeric {
		return field, nil
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	return ParseFloat(field)
}

func containsString(strs []string, s string) bool {
	for _, str := range strs {
		if str == s {
			return true
		}
	}
	return false
}
