// Package sqltable pages sortable tables from SQL databases
// and writes records into SQL tables.
package sqltable

import (
	"context"
	"database/sql"
	"slices"

	sorttable "github.com/domonda/go-sorttable"
)

var _ Rows = &sql.Rows{}

// Rows is the subset of *sql.Rows used by ScanRecords,
// so row sets can be mocked in tests.
type Rows interface {
	// Columns returns the names of the columns in the result set.
	Columns() ([]string, error)
	// Scan copies the column values of the current row into dest.
	Scan(dest ...any) error
	// Close closes the Rows, it is safe to call it multiple times.
	Close() error
	// Next prepares the next result row for reading with Scan.
	Next() bool
	// Err returns the error, if any, that was encountered during iteration.
	Err() error
}

// ScanRecords reads all rows as records
// using the result column names as column ids
// and closes rows.
// Byte slice values are converted to strings.
func ScanRecords(ctx context.Context, rows Rows) ([]sorttable.Record, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	records := []sorttable.Record{}
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&scannedValues[i]}
		}
		err = rows.Scan(valueScanners...)
		if err != nil {
			return records, err
		}
		record := make(sorttable.Record, len(columns))
		for i, column := range columns {
			record[column] = scannedValues[i]
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Copy bytes because they won't be valid after this method call
		src = string(slices.Clone(b))
	}
	*s.dest = src
	return nil
}
