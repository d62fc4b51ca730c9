// Package htmltable renders sortable tables as HTML.
//
// The Renderer is a set of pure functions from columns,
// sort state and records to markup:
//   - Header renders the header cells with the sort arrow
//     attached to the active sort column only
//   - Row renders one record as a linked row,
//     formatting every cell with the column's CellFormatter
//     or as escaped text
//   - Table renders the complete table with its sub-elements
//
// Element implements sorttable.View by keeping the markup
// of the mounted sub-elements in memory, so a sorttable.Table
// can update the header, replace the body or append rows
// without re-rendering everything.
//
// Example usage:
//
//	columns := sorttable.Columns{
//	    {ID: "title", Title: "Name", Sortable: true, Kind: sorttable.Textual},
//	    {ID: "price", Title: "Price", Sortable: true, Kind: sorttable.Numeric},
//	}
//	element := htmltable.NewElement(htmltable.NewRenderer())
//	table, err := sorttable.New(columns, sorttable.Options{Records: records, View: element})
//	...
//	err = table.Init(ctx)
//	_, err = element.WriteTo(os.Stdout)
package htmltable

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	sorttable "github.com/domonda/go-sorttable"
)

// DefaultRowLinkPrefix is prepended to record ids
// to build the link of a row.
const DefaultRowLinkPrefix = "/products/"

// Renderer renders the parts of a sortable table as HTML.
//
// Renderer is immutable after creation - all With* methods return
// a new Renderer instance with the modified configuration.
//
// HTML Escaping:
// By default, all cell values are HTML-escaped for safety.
// Formatters can return raw HTML by setting the raw return value to true.
type Renderer struct {
	rowLinkPrefix      string
	nilValue           template.HTML
	typeFormatters     *sorttable.TypeCellFormatter
	emptyPlaceholder   template.HTML
	tableTemplate      *template.Template
	headerCellTemplate *template.Template
	rowTemplate        *template.Template
}

// NewRenderer creates a new Renderer.
//
// Default configuration:
//   - Rows link to DefaultRowLinkPrefix + record id
//   - Empty string for nil values
//   - sorttable.DefaultTypeFormatters
//   - DefaultEmptyPlaceholder
//   - TableTemplate, HeaderCellTemplate, and RowTemplate
func NewRenderer() *Renderer {
	return &Renderer{
		rowLinkPrefix:      DefaultRowLinkPrefix,
		nilValue:           "",
		typeFormatters:     sorttable.DefaultTypeFormatters,
		emptyPlaceholder:   DefaultEmptyPlaceholder,
		tableTemplate:      TableTemplate,
		headerCellTemplate: HeaderCellTemplate,
		rowTemplate:        RowTemplate,
	}
}

func (r *Renderer) clone() *Renderer {
	c := new(Renderer)
	*c = *r
	return c
}

// WithRowLinkPrefix returns a new renderer that links rows
// to rowLinkPrefix followed by the record id.
// An empty prefix renders rows without links.
//
// Example:
//
//	renderer := htmltable.NewRenderer().WithRowLinkPrefix("/orders/")
//	// Produces: <a href="/orders/42" class="sortable-table__row">...</a>
func (r *Renderer) WithRowLinkPrefix(rowLinkPrefix string) *Renderer {
	mod := r.clone()
	mod.rowLinkPrefix = rowLinkPrefix
	return mod
}

// WithNilValue returns a new renderer with the specified HTML to use for nil values.
// By default, nil values are rendered as empty strings.
func (r *Renderer) WithNilValue(nilValue template.HTML) *Renderer {
	mod := r.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTypeFormatters returns a new renderer that formats cells
// of columns without a successful column formatter with typeFormatters.
// Passing nil formats those cells with fmt.Sprint.
func (r *Renderer) WithTypeFormatters(typeFormatters *sorttable.TypeCellFormatter) *Renderer {
	mod := r.clone()
	mod.typeFormatters = typeFormatters
	return mod
}

// WithEmptyPlaceholder returns a new renderer with the HTML
// that is shown instead of the rows of an empty table.
func (r *Renderer) WithEmptyPlaceholder(placeholder template.HTML) *Renderer {
	mod := r.clone()
	mod.emptyPlaceholder = placeholder
	return mod
}

// WithTemplates returns a new renderer with custom templates.
// The table template must define the sub-templates
// "header", "body", "loading", and "emptyPlaceholder".
// See templates.go for the default templates and context structures.
func (r *Renderer) WithTemplates(tableTemplate, headerCellTemplate, rowTemplate *template.Template) *Renderer {
	mod := r.clone()
	mod.tableTemplate = tableTemplate
	mod.headerCellTemplate = headerCellTemplate
	mod.rowTemplate = rowTemplate
	return mod
}

// RowLinkPrefix returns the configured row link prefix.
func (r *Renderer) RowLinkPrefix() string {
	return r.rowLinkPrefix
}

// EmptyPlaceholder returns the configured empty placeholder HTML.
func (r *Renderer) EmptyPlaceholder() template.HTML {
	return r.emptyPlaceholder
}

// HeaderCells returns the view models of the header cells.
// Only the sortable column of the sort state gets an Order.
func HeaderCells(columns sorttable.Columns, sorted sorttable.SortState) []HeaderCell {
	cells := make([]HeaderCell, len(columns))
	for i := range columns {
		col := &columns[i]
		cells[i] = HeaderCell{
			ID:       col.ID,
			Title:    col.Title,
			Sortable: col.CanSort(),
		}
		if cells[i].Sortable && col.ID == sorted.ColumnID {
			cells[i].Order = sorted.Direction.String()
		}
	}
	return cells
}

// Header renders the header cells of the columns.
// Exactly one sort arrow is rendered for the active
// sort column, none if the sort state is empty.
func (r *Renderer) Header(columns sorttable.Columns, sorted sorttable.SortState) (template.HTML, error) {
	var b strings.Builder
	for _, cell := range HeaderCells(columns, sorted) {
		err := r.headerCellTemplate.Execute(&b, cell)
		if err != nil {
			return "", err
		}
	}
	return template.HTML(b.String()), nil //#nosec G203
}

// Row renders a record as table row.
//
// The method processes each cell through the following formatter cascade:
//  1. The column's CellFormatter (if configured)
//  2. The renderer's type formatters
//  3. Fallback to fmt.Sprint of the cell value
//
// Formatters returning errors.ErrUnsupported fall through to the next step.
// All non-raw formatted values are HTML-escaped.
func (r *Renderer) Row(ctx context.Context, columns sorttable.Columns, record sorttable.Record) (template.HTML, error) {
	var b strings.Builder
	err := r.writeRow(ctx, &b, columns, record)
	if err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil //#nosec G203
}

// Rows renders all records as consecutive rows.
func (r *Renderer) Rows(ctx context.Context, columns sorttable.Columns, records []sorttable.Record) (template.HTML, error) {
	var b strings.Builder
	for _, record := range records {
		err := r.writeRow(ctx, &b, columns, record)
		if err != nil {
			return "", err
		}
	}
	return template.HTML(b.String()), nil //#nosec G203
}

// Table renders the complete table including
// the header, body, loading, and emptyPlaceholder sub-elements.
// The empty placeholder is visible if there are no records.
func (r *Renderer) Table(ctx context.Context, columns sorttable.Columns, sorted sorttable.SortState, records []sorttable.Record, loading bool) (template.HTML, error) {
	header, err := r.Header(columns, sorted)
	if err != nil {
		return "", err
	}
	body, err := r.Rows(ctx, columns, records)
	if err != nil {
		return "", err
	}
	return r.execTable("table", &TableTemplateContext{
		Header:           header,
		Body:             body,
		EmptyPlaceholder: r.emptyPlaceholder,
		Loading:          loading,
		Empty:            len(records) == 0,
	})
}

// Cell formats the value of a column of a record.
func (r *Renderer) Cell(ctx context.Context, record sorttable.Record, column *sorttable.Column) (template.HTML, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	cell := sorttable.Cell{
		Record: record,
		Column: column,
		Value:  record.Value(column.ID),
	}
	for _, formatter := range []sorttable.CellFormatter{column.Formatter, r.typeFormatters} {
		if formatter == nil {
			continue
		}
		str, isRaw, err := formatter.FormatCell(ctx, &cell)
		if err != nil && !errors.Is(err, errors.ErrUnsupported) {
			return "", fmt.Errorf("column %q of record %q: %w", column.ID, record.ID(), err)
		}
		if err == nil {
			if !isRaw {
				str = template.HTMLEscapeString(str)
			}
			return template.HTML(str), nil //#nosec G203
		}
		// Continue after errors.ErrUnsupported
	}
	if cell.Value == nil {
		return r.nilValue, nil
	}
	return template.HTML(template.HTMLEscapeString(fmt.Sprint(cell.Value))), nil //#nosec G203
}

func (r *Renderer) writeRow(ctx context.Context, b *strings.Builder, columns sorttable.Columns, record sorttable.Record) error {
	templData := RowTemplateContext{
		RecordID: record.ID(),
		RawCells: make([]template.HTML, len(columns)),
	}
	if r.rowLinkPrefix != "" && templData.RecordID != "" {
		templData.Href = r.rowLinkPrefix + templData.RecordID
	}
	for col := range columns {
		cell, err := r.Cell(ctx, record, &columns[col])
		if err != nil {
			return err
		}
		templData.RawCells[col] = cell
	}
	return r.rowTemplate.Execute(b, &templData)
}

func (r *Renderer) execTable(name string, templData *TableTemplateContext) (template.HTML, error) {
	var b strings.Builder
	err := r.tableTemplate.ExecuteTemplate(&b, name, templData)
	if err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil //#nosec G203
}
