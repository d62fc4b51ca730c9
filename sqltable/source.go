package sqltable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	sorttable "github.com/domonda/go-sorttable"
)

var _ sorttable.PageLoader = new(Source)

// Source is a sorttable.PageLoader for a SQL table or view.
//
// Pages are selected with
//
//	SELECT * FROM "table" ORDER BY "column" COLLATE "sorttable" ASC, "rowid" LIMIT ? OFFSET ?
//
// so the database has to support LIMIT/OFFSET
// and double quoted identifiers (SQLite, PostgreSQL, MySQL in ANSI mode).
// Only sortable columns are accepted as sort column,
// other sort requests return the rows in key column order.
//
// Textual columns are ordered with the collation of the Source
// and rows with equal sort values by the key column,
// so pages of the same sort state never overlap.
// The defaults Collation and "rowid" are SQLite specific,
// use WithCollation and WithKeyColumn for other databases.
type Source struct {
	db        *sql.DB
	table     string
	columns   sorttable.Columns
	collation string
	keyColumn string
	logger    *zap.Logger
}

// NewSource returns a Source for table using db.
// A nil logger disables logging.
func NewSource(db *sql.DB, table string, columns sorttable.Columns, logger *zap.Logger) (*Source, error) {
	if db == nil {
		return nil, errors.New("nil sql.DB")
	}
	if table == "" {
		return nil, errors.New("empty table name")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		db:        db,
		table:     table,
		columns:   columns,
		collation: Collation,
		keyColumn: "rowid",
		logger:    logger,
	}, nil
}

func (s *Source) clone() *Source {
	c := new(Source)
	*c = *s
	return c
}

// WithCollation returns a new Source that orders textual columns
// with the named collation.
// An empty name uses the default collation of the database.
func (s *Source) WithCollation(collation string) *Source {
	mod := s.clone()
	mod.collation = collation
	return mod
}

// WithKeyColumn returns a new Source that orders rows
// with equal sort values by keyColumn.
// The key column should be unique, an empty name disables it.
func (s *Source) WithKeyColumn(keyColumn string) *Source {
	mod := s.clone()
	mod.keyColumn = keyColumn
	return mod
}

// Query returns the SQL query and its arguments for req.
func (s *Source) Query(req sorttable.PageRequest) (query string, args []any) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(QuoteIdentifier(s.table))
	var order []string
	if col, ok := s.columns.Column(req.Sort.ColumnID); ok && col.CanSort() {
		term := QuoteIdentifier(col.ID)
		if col.Kind == sorttable.Textual && s.collation != "" {
			term += " COLLATE " + QuoteIdentifier(s.collation)
		}
		if req.Sort.Direction == sorttable.Descending {
			term += " DESC"
		} else {
			term += " ASC"
		}
		order = append(order, term)
	}
	if s.keyColumn != "" {
		order = append(order, QuoteIdentifier(s.keyColumn))
	}
	if len(order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}
	b.WriteString(" LIMIT ? OFFSET ?")
	return b.String(), []any{req.Limit(), req.Start}
}

// LoadPage implements sorttable.PageLoader.
func (s *Source) LoadPage(ctx context.Context, req sorttable.PageRequest) ([]sorttable.Record, error) {
	query, args := s.Query(req)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	records, err := ScanRecords(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.table, err)
	}
	s.logger.Debug("loaded page", zap.String("table", s.table), zap.Stringer("request", req), zap.Int("records", len(records)))
	return records, nil
}

// QuoteIdentifier quotes a SQL identifier with double quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
