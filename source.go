package sorttable

import (
	"context"
	"fmt"
	"slices"
)

// PageRequest asks a PageLoader for the records
// in the row range [Start, End) ordered by Sort.
type PageRequest struct {
	Sort  SortState
	Start int
	End   int
}

// Limit returns the number of requested records.
func (r PageRequest) Limit() int {
	return max(r.End-r.Start, 0)
}

func (r PageRequest) String() string {
	return fmt.Sprintf("%s [%d,%d)", r.Sort, r.Start, r.End)
}

// PageLoader loads a page of records from a data source.
// An empty result signals that no more records are available.
type PageLoader interface {
	LoadPage(ctx context.Context, req PageRequest) ([]Record, error)
}

// PageLoaderFunc implements PageLoader for a function.
type PageLoaderFunc func(ctx context.Context, req PageRequest) ([]Record, error)

func (f PageLoaderFunc) LoadPage(ctx context.Context, req PageRequest) ([]Record, error) {
	return f(ctx, req)
}

var _ PageLoader = new(SliceSource)

// SliceSource is an in-memory PageLoader
// that sorts a copy of its records for every request.
type SliceSource struct {
	Columns Columns
	Records []Record
}

// NewSliceSource returns a SliceSource for records
// that can be sorted by the passed columns.
func NewSliceSource(columns Columns, records []Record) *SliceSource {
	return &SliceSource{Columns: columns, Records: records}
}

// LoadPage implements PageLoader.
// Unknown or non-sortable sort columns
// return the records in insertion order.
func (s *SliceSource) LoadPage(ctx context.Context, req PageRequest) ([]Record, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if req.Start < 0 || req.End < req.Start {
		return nil, fmt.Errorf("invalid page range [%d,%d)", req.Start, req.End)
	}
	records := slices.Clone(s.Records)
	if col, ok := s.Columns.Column(req.Sort.ColumnID); ok && col.CanSort() {
		err := SortRecords(records, s.Columns, req.Sort)
		if err != nil {
			return nil, err
		}
	}
	if req.Start >= len(records) {
		return []Record{}, nil
	}
	return records[req.Start:min(req.End, len(records))], nil
}
