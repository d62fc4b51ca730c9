package htmltable

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	sorttable "github.com/domonda/go-sorttable"
)

var _ sorttable.View = new(Element)

// Element is the mounted markup of a sorttable.Table.
// It implements sorttable.View by rendering with its Renderer
// and keeping the markup of every sub-element,
// so appended rows don't re-render existing ones.
//
// Element is safe for concurrent use.
type Element struct {
	renderer *Renderer

	mu      sync.RWMutex
	header  template.HTML
	rows    []template.HTML
	loading bool
	empty   bool
	removed bool
}

// NewElement returns an Element rendering with renderer.
// A nil renderer uses NewRenderer().
func NewElement(renderer *Renderer) *Element {
	if renderer == nil {
		renderer = NewRenderer()
	}
	return &Element{renderer: renderer, empty: true}
}

// RenderHeader implements sorttable.View.
func (e *Element) RenderHeader(ctx context.Context, columns sorttable.Columns, sorted sorttable.SortState) error {
	header, err := e.renderer.Header(columns, sorted)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.header = header
	e.mu.Unlock()
	return nil
}

// RenderBody implements sorttable.View.
func (e *Element) RenderBody(ctx context.Context, columns sorttable.Columns, records []sorttable.Record) error {
	rows, err := e.renderRows(ctx, columns, records)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rows = rows
	e.mu.Unlock()
	return nil
}

// AppendRows implements sorttable.View.
func (e *Element) AppendRows(ctx context.Context, columns sorttable.Columns, records []sorttable.Record) error {
	rows, err := e.renderRows(ctx, columns, records)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rows = append(e.rows, rows...)
	e.mu.Unlock()
	return nil
}

// SetLoading implements sorttable.View.
func (e *Element) SetLoading(loading bool) {
	e.mu.Lock()
	e.loading = loading
	e.mu.Unlock()
}

// SetEmpty implements sorttable.View.
func (e *Element) SetEmpty(empty bool) {
	e.mu.Lock()
	e.empty = empty
	e.mu.Unlock()
}

// Remove implements sorttable.View.
// A removed Element renders as empty string.
func (e *Element) Remove() {
	e.mu.Lock()
	e.removed = true
	e.header = ""
	e.rows = nil
	e.mu.Unlock()
}

// NumRows returns the number of mounted rows.
func (e *Element) NumRows() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.rows)
}

// Root returns the markup of the whole table.
func (e *Element) Root() (template.HTML, error) {
	return e.exec("table")
}

// SubElement returns the markup of a named sub-element:
// ElementHeader, ElementBody, ElementLoading, or ElementEmptyPlaceholder.
func (e *Element) SubElement(name string) (template.HTML, error) {
	switch name {
	case ElementHeader, ElementBody, ElementLoading, ElementEmptyPlaceholder:
		return e.exec(name)
	}
	return "", fmt.Errorf("unknown sub-element %q", name)
}

// WriteTo writes the markup of the whole table to w.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	root, err := e.Root()
	if err != nil {
		return 0, err
	}
	n, err := io.WriteString(w, string(root))
	return int64(n), err
}

func (e *Element) renderRows(ctx context.Context, columns sorttable.Columns, records []sorttable.Record) ([]template.HTML, error) {
	rows := make([]template.HTML, len(records))
	for i, record := range records {
		row, err := e.renderer.Row(ctx, columns, record)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

func (e *Element) exec(name string) (template.HTML, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.removed {
		return "", nil
	}
	var body strings.Builder
	for _, row := range e.rows {
		body.WriteString(string(row))
	}
	return e.renderer.execTable(name, &TableTemplateContext{
		Header:           e.header,
		Body:             template.HTML(body.String()), //#nosec G203
		EmptyPlaceholder: e.renderer.emptyPlaceholder,
		Loading:          e.loading,
		Empty:            e.empty,
	})
}
