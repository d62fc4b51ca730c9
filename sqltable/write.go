package sqltable

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	sorttable "github.com/domonda/go-sorttable"
)

// CreateTable creates table with one column per column id
// and inserts the records in one transaction.
// Column types follow the value kinds: REAL for Numeric, TEXT otherwise,
// the IDField column is added as TEXT if not part of columns.
// Values that are not numbers or strings are stored as JSON text.
func CreateTable(ctx context.Context, db *sql.DB, table string, columns sorttable.Columns, records []sorttable.Record) (err error) {
	ids := columns.IDs()
	defs := make([]string, 0, len(ids)+1)
	if _, ok := columns.Column(sorttable.IDField); !ok {
		ids = append([]string{sorttable.IDField}, ids...)
		defs = append(defs, QuoteIdentifier(sorttable.IDField)+" TEXT")
	}
	for _, col := range columns {
		typ := "TEXT"
		if col.Kind == sorttable.Numeric {
			typ = "REAL"
		}
		defs = append(defs, QuoteIdentifier(col.ID)+" "+typ)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback() //#nosec G104 -- error of the failed statement is returned
		}
	}()

	_, err = tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdentifier(table), strings.Join(defs, ", ")))
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = QuoteIdentifier(id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", QuoteIdentifier(table), strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(ids))
	for _, record := range records {
		for i, id := range ids {
			args[i], err = sqlValue(record[id])
			if err != nil {
				return fmt.Errorf("record %q column %q: %w", record.ID(), id, err)
			}
		}
		_, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("insert record %q into %s: %w", record.ID(), table, err)
		}
	}
	return tx.Commit()
}

func sqlValue(v any) (any, error) {
	switch x := v.(type) {
	case nil, string, bool, int, int64, int32, uint32, float64, float32:
		return x, nil
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f, nil
		}
		return x.String(), nil
	}
	if f, ok := sorttable.Float(v); ok {
		return f, nil
	}
	j, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(j), nil
}
