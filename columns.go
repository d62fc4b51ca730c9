// Package sorttable implements sortable, incrementally loaded tables:
// column descriptors, records, comparators and the Table controller
// that keeps a record buffer in sync with a rendered View.
//
// Markup is produced by the htmltable package, remote data
// is provided by PageLoader implementations like httpsource.Source
// or sqltable.Source.
package sorttable

import (
	"errors"
	"fmt"
	"strings"
)

// ValueKind declares how the values of a sortable column are compared.
type ValueKind int

const (
	// KindNone is used for columns that are not sortable.
	KindNone ValueKind = iota
	// Numeric values are compared by their numeric difference.
	Numeric
	// Textual values are compared with locale-aware collation.
	Textual
)

// ParseValueKind parses the kind names "number" and "string"
// as used by table configurations.
// Also accepted are "numeric" and "text".
// An empty string results in KindNone.
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return KindNone, nil
	case "number", "numeric":
		return Numeric, nil
	case "string", "text", "textual":
		return Textual, nil
	}
	return KindNone, fmt.Errorf("invalid value kind %q", s)
}

func (k ValueKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case Numeric:
		return "number"
	case Textual:
		return "string"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Column describes one table column.
type Column struct {
	// ID is the key of the column values in a Record.
	ID string
	// Title is the display label of the column header.
	Title string
	// Sortable columns can be sorted by clicking the header.
	Sortable bool
	// Kind of the column values, must be set for sortable columns.
	Kind ValueKind
	// Formatter is an optional custom cell formatter.
	// If nil, the value is rendered as escaped text.
	Formatter CellFormatter
}

// CanSort returns true if the column is sortable
// and has a comparable value kind.
func (c *Column) CanSort() bool {
	return c != nil && c.Sortable && c.Kind != KindNone
}

// Columns is an ordered list of column descriptors.
type Columns []Column

// Column returns a pointer to the column with the passed id.
func (cols Columns) Column(id string) (*Column, bool) {
	for i := range cols {
		if cols[i].ID == id {
			return &cols[i], true
		}
	}
	return nil, false
}

// IDs returns the column ids in order.
func (cols Columns) IDs() []string {
	ids := make([]string, len(cols))
	for i := range cols {
		ids[i] = cols[i].ID
	}
	return ids
}

// Validate checks that all column ids are unique and non empty
// and that every sortable column has a value kind.
func (cols Columns) Validate() error {
	if len(cols) == 0 {
		return errors.New("no columns")
	}
	seen := make(map[string]struct{}, len(cols))
	for i := range cols {
		col := &cols[i]
		if col.ID == "" {
			return fmt.Errorf("column %d has no id", i)
		}
		if _, dup := seen[col.ID]; dup {
			return fmt.Errorf("duplicate column id %q", col.ID)
		}
		seen[col.ID] = struct{}{}
		if col.Sortable && col.Kind == KindNone {
			return fmt.Errorf("sortable column %q has no value kind", col.ID)
		}
	}
	return nil
}
