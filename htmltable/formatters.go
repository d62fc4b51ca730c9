package htmltable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	sorttable "github.com/domonda/go-sorttable"
)

var (
	HTMLPreCellFormatter sorttable.CellFormatterFunc = func(ctx context.Context, cell *sorttable.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(cell.Value))
		return "<pre>" + value + "</pre>", true, nil
	}

	// ValueAsHTMLAnchorCellFormatter formats the cell value using fmt.Sprint,
	// escapes it for HTML and returns an HTML anchor element with the
	// value as id and inner text.
	ValueAsHTMLAnchorCellFormatter sorttable.CellFormatterFunc = func(ctx context.Context, cell *sorttable.Cell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(cell.Value))
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", value), true, nil
	}

	_ sorttable.CellFormatter = HTMLSpanClassCellFormatter("")
	_ sorttable.CellFormatter = ImageCellFormatter("")
)

// HTMLSpanClassCellFormatter formats the cell value within an HTML span element
// with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, cell *sorttable.Cell) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(fmt.Sprint(cell.Value))
	return fmt.Sprintf("<span class='%s'>%s</span>", template.HTMLEscapeString(string(class)), text), true, nil
}

// ImageCellFormatter renders the first image of the cell value
// as img element with the underlying string as CSS class.
//
// Supported values are an image URL string,
// a slice of URL strings, or a slice of objects
// with an "url" field as decoded from JSON.
// Strings with a JSON array or object are decoded first.
// Other values and empty slices return errors.ErrUnsupported,
// so the cell falls back to text formatting.
type ImageCellFormatter string

func (class ImageCellFormatter) FormatCell(ctx context.Context, cell *sorttable.Cell) (str string, raw bool, err error) {
	url, ok := firstImageURL(cell.Value)
	if !ok {
		return "", false, errors.ErrUnsupported
	}
	return fmt.Sprintf(`<img class="%s" alt="Image" src="%s">`,
		template.HTMLEscapeString(string(class)),
		template.HTMLEscapeString(url),
	), true, nil
}

func firstImageURL(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if strings.HasPrefix(v, "[") || strings.HasPrefix(v, "{") {
			var decoded any
			if json.Unmarshal([]byte(v), &decoded) == nil {
				return firstImageURL(decoded)
			}
		}
		return v, v != ""
	case []string:
		if len(v) > 0 {
			return firstImageURL(v[0])
		}
	case []any:
		if len(v) > 0 {
			return firstImageURL(v[0])
		}
	case map[string]any:
		return firstImageURL(v["url"])
	}
	return "", false
}
