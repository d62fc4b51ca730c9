package sorttable

import (
	"fmt"
	"strings"
)

// Direction of a sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection parses "asc" or "desc" (case insensitive).
// An empty string is parsed as Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort direction %q", s)
}

// String returns "asc" or "desc" as used in query parameters
// and data-order attributes.
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SortState is the active sort column and direction.
// An empty ColumnID means the records are in insertion order.
type SortState struct {
	ColumnID  string    `json:"id"    yaml:"id"`
	Direction Direction `json:"order" yaml:"order"`
}

// IsEmpty returns true if no sort column is active.
func (s SortState) IsEmpty() bool {
	return s.ColumnID == ""
}

func (s SortState) String() string {
	if s.IsEmpty() {
		return "unsorted"
	}
	return s.ColumnID + " " + s.Direction.String()
}
