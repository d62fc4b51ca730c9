package sorttable

import "context"

// View is the mounted output of a Table.
// The Table calls it to replace or extend
// the named regions of the rendered table.
// Implementations must not modify the passed records.
type View interface {
	// RenderHeader replaces the header region.
	RenderHeader(ctx context.Context, columns Columns, sorted SortState) error
	// RenderBody replaces all rows of the body region.
	RenderBody(ctx context.Context, columns Columns, records []Record) error
	// AppendRows adds rows to the end of the body region
	// without touching the existing rows.
	AppendRows(ctx context.Context, columns Columns, records []Record) error
	// SetLoading shows or hides the loading indicator.
	SetLoading(loading bool)
	// SetEmpty shows or hides the empty-state placeholder.
	SetEmpty(empty bool)
	// Remove releases the rendered output.
	Remove()
}

var _ View = NopView{}

// NopView is a View that renders nothing.
type NopView struct{}

func (NopView) RenderHeader(context.Context, Columns, SortState) error { return nil }
func (NopView) RenderBody(context.Context, Columns, []Record) error    { return nil }
func (NopView) AppendRows(context.Context, Columns, []Record) error    { return nil }
func (NopView) SetLoading(bool)                                        {}
func (NopView) SetEmpty(bool)                                          {}
func (NopView) Remove()                                                {}
