package csvtable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	sorttable "github.com/domonda/go-sorttable"
)

// Writer writes records as CSV.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
type Writer struct {
	typeFormatters   *sorttable.TypeCellFormatter
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
}

// NewWriter returns a Writer using semicolon delimiters,
// "\r\n" line endings, and a header row of the column ids.
func NewWriter() *Writer {
	return &Writer{
		typeFormatters: sorttable.DefaultTypeFormatters,
		headerRow:      true,
		escapeQuotes:   `""`,
		delimiter:      ';',
		newLine:        "\r\n",
	}
}

// NewWriterWithFormat returns a Writer using the
// separator and newline of format.
func NewWriterWithFormat(format *Format) (*Writer, error) {
	err := format.Validate()
	if err != nil {
		return nil, err
	}
	if format.Encoding != "UTF-8" {
		return nil, fmt.Errorf("writing CSV encoding %q not supported", format.Encoding)
	}
	return NewWriter().WithDelimiter(format.separatorRune()).WithNewLine(format.Newline), nil
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WriteRecords writes the values of columns of the records to dest.
// Column formatters are used for the cell text,
// raw formatter results are written unescaped.
func (w *Writer) WriteRecords(ctx context.Context, dest io.Writer, columns sorttable.Columns, records []sorttable.Record) error {
	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	if w.headerRow {
		for i, col := range columns {
			if i > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			rowBuf.WriteString(w.escapeString(col.ID, false))
		}
		rowBuf.WriteString(w.newLine)
		_, err := dest.Write(rowBuf.Bytes())
		if err != nil {
			return err
		}
		rowBuf.Reset()
	}
	for _, record := range records {
		for i := range columns {
			if i > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			str, err := w.cellString(ctx, record, &columns[i])
			if err != nil {
				return err
			}
			rowBuf.WriteString(str)
		}
		rowBuf.WriteString(w.newLine)
		_, err := dest.Write(rowBuf.Bytes())
		if err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

func (w *Writer) cellString(ctx context.Context, record sorttable.Record, column *sorttable.Column) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	cell := sorttable.Cell{
		Record: record,
		Column: column,
		Value:  record.Value(column.ID),
	}
	if column.Formatter != nil {
		str, isRaw, err := column.Formatter.FormatCell(ctx, &cell)
		if err == nil {
			return w.escapeString(str, isRaw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		// Continue after errors.ErrUnsupported
	}
	str, isRaw, err := w.typeFormatters.FormatCell(ctx, &cell)
	if err == nil {
		return w.escapeString(str, isRaw), nil
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		return "", err
	}
	if cell.Value == nil {
		return w.escapeString(w.nilValue, false), nil
	}
	return w.escapeString(fmt.Sprint(cell.Value), false), nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	// Just in case remove all \r,
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n') || strings.ContainsRune(str, '"'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return str
}

// WithTypeFormatters returns a new writer formatting cells
// by value type if the column has no formatter for them.
func (w *Writer) WithTypeFormatters(typeFormatters *sorttable.TypeCellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = typeFormatters
	return mod
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer) Delimiter() rune {
	return w.delimiter
}

func (w *Writer) NewLine() string {
	return w.newLine
}
