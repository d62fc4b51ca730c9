package htmltable

import "html/template"

// Names of the sub-elements of a rendered table,
// used as data-element attribute values
// and as template names of TableTemplate.
const (
	ElementHeader           = "header"
	ElementBody             = "body"
	ElementLoading          = "loading"
	ElementEmptyPlaceholder = "emptyPlaceholder"
	ElementArrow            = "arrow"
)

var (
	// TableTemplate renders the root element of a table.
	// Its named sub-templates render the sub-elements
	// and are executed with a TableTemplateContext.
	TableTemplate = template.Must(template.New("table").Parse("" +
		`{{define "header"}}<div data-element="header" class="sortable-table__header sortable-table__row">{{.Header}}</div>{{end}}` +
		`{{define "body"}}<div data-element="body" class="sortable-table__body">{{.Body}}</div>{{end}}` +
		`{{define "loading"}}<div data-element="loading" class="loading-line sortable-table__loading-line"{{if not .Loading}} hidden{{end}}></div>{{end}}` +
		`{{define "emptyPlaceholder"}}<div data-element="emptyPlaceholder" class="sortable-table__empty-placeholder"{{if not .Empty}} hidden{{end}}>{{.EmptyPlaceholder}}</div>{{end}}` +
		"<div class='sortable-table'>\n" +
		"  {{template \"header\" .}}\n" +
		"  {{template \"body\" .}}\n" +
		"  {{template \"loading\" .}}\n" +
		"  {{template \"emptyPlaceholder\" .}}\n" +
		"</div>",
	))

	// HeaderCellTemplate renders one header cell
	// from a HeaderCell. The arrow element is only
	// rendered for the column with a sort order.
	HeaderCellTemplate = template.Must(template.New("headerCell").Parse("" +
		`<div class="sortable-table__cell" data-id="{{.ID}}" data-sortable="{{.Sortable}}"{{if .Order}} data-order="{{.Order}}"{{end}}>` +
		`<span>{{.Title}}</span>` +
		`{{if .Order}}<span data-element="arrow" class="sortable-table__sort-arrow"><span class="sort-arrow"></span></span>{{end}}` +
		"</div>\n",
	))

	// RowTemplate renders one body row from a RowTemplateContext.
	// Rows with a link are rendered as anchor elements.
	RowTemplate = template.Must(template.New("row").Parse("" +
		`{{if .Href}}<a href="{{.Href}}" class="sortable-table__row">{{else}}<div class="sortable-table__row">{{end}}` +
		`{{range $cell := .RawCells}}<div class="sortable-table__cell">{{$cell}}</div>{{end}}` +
		`{{if .Href}}</a>{{else}}</div>{{end}}` +
		"\n",
	))

	// DefaultEmptyPlaceholder is shown in place of an empty table body.
	DefaultEmptyPlaceholder template.HTML = `<div><p>No records match the current criteria</p></div>`
)

// TableTemplateContext is passed to TableTemplate.
type TableTemplateContext struct {
	Header           template.HTML
	Body             template.HTML
	EmptyPlaceholder template.HTML
	Loading          bool
	Empty            bool
}

// HeaderCell is the view model of a header cell.
type HeaderCell struct {
	ID       string
	Title    string
	Sortable bool
	// Order is "asc" or "desc" for the active sort column
	// and empty for all other columns.
	Order string
}

// RowTemplateContext is passed to RowTemplate.
type RowTemplateContext struct {
	RecordID string
	Href     string
	RawCells []template.HTML
}
