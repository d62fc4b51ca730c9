package sorttable

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrLoading is returned when an operation would start
	// a page fetch while another one is still in flight.
	ErrLoading = errors.New("table is loading")

	// ErrDestroyed is returned by all operations
	// of a Table after Destroy was called.
	ErrDestroyed = errors.New("table is destroyed")
)

// Table is the controller of a sortable table.
// It owns the record buffer and the sort state
// and keeps its View in sync with them.
//
// A Table either sorts locally with a Comparator
// or remotely by requesting sorted pages from its PageLoader.
// In remote mode further pages are appended
// when the document is scrolled near its bottom.
//
// Only one page fetch can be in flight at a time.
// While it is, sorting returns ErrLoading
// and scroll events are ignored.
// The methods of a Table are safe for concurrent use.
type Table struct {
	columns      Columns
	source       PageLoader
	view         View
	logger       *zap.Logger
	remote       bool
	pageSize     int
	scrollMargin float64

	mu        sync.Mutex
	records   []Record
	sorted    SortState
	loading   bool
	destroyed bool
}

// New returns a Table for the columns.
// The sort mode is fixed at construction:
// the table sorts remotely if opts.Source is not nil
// and opts.SortLocally is false.
// Call Init to render the table and load the first page.
func New(columns Columns, opts Options) (*Table, error) {
	err := columns.Validate()
	if err != nil {
		return nil, err
	}
	o := opts.withDefaults()
	if !o.Sorted.IsEmpty() {
		col, ok := columns.Column(o.Sorted.ColumnID)
		if !ok {
			return nil, fmt.Errorf("initial sort: %w: %q", ErrUnknownColumn, o.Sorted.ColumnID)
		}
		if !col.CanSort() {
			return nil, fmt.Errorf("initial sort: %w: %q", ErrNotSortable, o.Sorted.ColumnID)
		}
	}
	return &Table{
		columns:      slices.Clone(columns),
		source:       o.Source,
		view:         o.View,
		logger:       o.Logger,
		remote:       o.Source != nil && !o.SortLocally,
		pageSize:     o.PageSize,
		scrollMargin: o.ScrollMargin,
		records:      slices.Clone(o.Records),
		sorted:       o.Sorted,
	}, nil
}

// Init renders the header, loads the first page
// and applies the initial sort state.
// In local mode with a PageLoader the first page
// is loaded unsorted and then sorted locally.
func (t *Table) Init(ctx context.Context) error {
	t.mu.Lock()
	err := t.checkIdle()
	if err == nil {
		err = t.view.RenderHeader(ctx, t.columns, t.sorted)
	}
	sorted := t.sorted
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if t.source != nil && !t.remote {
		err = t.fetch(ctx,
			func() PageRequest {
				return PageRequest{Start: 0, End: t.pageSize}
			},
			func(_ PageRequest, page []Record) error {
				t.records = slices.Clone(page)
				return nil
			},
		)
		if err != nil {
			return err
		}
	}
	return t.apply(ctx, sorted)
}

// Sort orders the table by the column and direction.
// Unknown and non-sortable columns are ignored.
// In remote mode the first page is requested sorted
// and replaces the buffer; ErrLoading is returned
// if a fetch is already in flight.
// On error the buffer and sort state are unchanged.
func (t *Table) Sort(ctx context.Context, columnID string, direction Direction) error {
	col, ok := t.columns.Column(columnID)
	if !ok || !col.CanSort() {
		return nil
	}
	return t.apply(ctx, SortState{ColumnID: columnID, Direction: direction})
}

// ClickHeader handles a click on the header cell of a column.
// Clicking the active sort column toggles the direction,
// clicking another sortable column sorts it descending.
// Unknown and non-sortable columns are ignored
// as well as clicks while a page is loading.
// Returns true if the table was sorted.
func (t *Table) ClickHeader(ctx context.Context, columnID string) (bool, error) {
	col, ok := t.columns.Column(columnID)
	if !ok || !col.CanSort() {
		return false, nil
	}
	t.mu.Lock()
	sorted := t.sorted
	t.mu.Unlock()

	direction := Descending
	if sorted.ColumnID == columnID {
		direction = sorted.Direction.Toggle()
	}
	err := t.Sort(ctx, columnID, direction)
	switch {
	case errors.Is(err, ErrLoading):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// OnScroll handles a document scroll event.
// In remote mode the next page is loaded and appended
// if the remaining scroll distance is less than the scroll margin
// and no other fetch is in flight.
// Returns the number of appended records.
func (t *Table) OnScroll(ctx context.Context, pos ScrollPosition) (int, error) {
	if !t.remote || !pos.NearBottom(t.scrollMargin) {
		return 0, nil
	}
	n, err := t.LoadMore(ctx)
	if errors.Is(err, ErrLoading) {
		return 0, nil
	}
	return n, err
}

// LoadMore loads the page following the buffered records
// with the current sort state and appends it.
// Only the appended rows are rendered.
// An empty page changes nothing.
// In local mode LoadMore does nothing.
// Returns the number of appended records.
func (t *Table) LoadMore(ctx context.Context) (int, error) {
	if !t.remote {
		return 0, nil
	}
	var appended int
	err := t.fetch(ctx,
		func() PageRequest {
			start := len(t.records)
			return PageRequest{Sort: t.sorted, Start: start, End: start + t.pageSize}
		},
		func(req PageRequest, page []Record) error {
			if len(page) == 0 {
				t.logger.Debug("no more records", zap.Stringer("request", req))
				return nil
			}
			t.records = append(t.records, page...)
			appended = len(page)
			t.view.SetEmpty(false)
			return t.view.AppendRows(ctx, t.columns, page)
		},
	)
	return appended, err
}

// Records returns a copy of the record buffer in display order.
func (t *Table) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.Clone(t.records)
}

// SortState returns the last applied sort state.
func (t *Table) SortState() SortState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sorted
}

// Loading returns true while a page fetch is in flight.
func (t *Table) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.loading
}

// Columns returns a copy of the table columns.
func (t *Table) Columns() Columns {
	return slices.Clone(t.columns)
}

// IsRemote returns true if the table sorts
// and pages through its PageLoader.
func (t *Table) IsRemote() bool {
	return t.remote
}

// Destroy removes the view and releases the records.
// All later operations return ErrDestroyed.
// A fetch in flight is not canceled but its result is dropped.
func (t *Table) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return
	}
	t.destroyed = true
	t.records = nil
	t.view.Remove()
}

func (t *Table) apply(ctx context.Context, sorted SortState) error {
	if t.remote {
		return t.fetch(ctx,
			func() PageRequest {
				return PageRequest{Sort: sorted, Start: 0, End: t.pageSize}
			},
			func(_ PageRequest, page []Record) error {
				return t.commitLocked(ctx, slices.Clone(page), sorted)
			},
		)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.checkIdle()
	if err != nil {
		return err
	}
	records := slices.Clone(t.records)
	err = SortRecords(records, t.columns, sorted)
	if err != nil {
		return err
	}
	return t.commitLocked(ctx, records, sorted)
}

// commitLocked renders records and sorted
// and makes them the table state if rendering succeeded.
func (t *Table) commitLocked(ctx context.Context, records []Record, sorted SortState) error {
	err := t.renderLocked(ctx, records, sorted)
	if err != nil {
		return err
	}
	t.records = records
	t.sorted = sorted
	return nil
}

// fetch loads a page from the source with the loading flag set.
// request is called with the lock held to build the PageRequest
// and update is called with the lock held to apply the loaded page.
// A failed fetch leaves the buffer unchanged.
func (t *Table) fetch(ctx context.Context, request func() PageRequest, update func(PageRequest, []Record) error) error {
	t.mu.Lock()
	err := t.checkIdle()
	if err != nil {
		t.mu.Unlock()
		return err
	}
	req := request()
	t.loading = true
	t.view.SetLoading(true)
	t.mu.Unlock()

	t.logger.Debug("loading page", zap.Stringer("request", req))
	page, err := t.source.LoadPage(ctx, req)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.loading = false
	if t.destroyed {
		return ErrDestroyed
	}
	t.view.SetLoading(false)
	if err != nil {
		t.logger.Warn("loading page failed", zap.Stringer("request", req), zap.Error(err))
		return fmt.Errorf("load page %s: %w", req, err)
	}
	t.logger.Debug("loaded page", zap.Stringer("request", req), zap.Int("records", len(page)))
	return update(req, page)
}

func (t *Table) renderLocked(ctx context.Context, records []Record, sorted SortState) error {
	err := t.view.RenderBody(ctx, t.columns, records)
	if err != nil {
		return err
	}
	t.view.SetEmpty(len(records) == 0)
	return t.view.RenderHeader(ctx, t.columns, sorted)
}

func (t *Table) checkIdle() error {
	switch {
	case t.destroyed:
		return ErrDestroyed
	case t.loading:
		return ErrLoading
	}
	return nil
}
