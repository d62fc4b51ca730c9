// Package csvtable reads CSV data as sortable table records
// and writes records as CSV.
//
// CSV data can be in any encoding supported by
// github.com/domonda/go-types/charset,
// a UTF-8 byte order mark is removed and
// a leading "sep=X" line as written by Excel is respected.
package csvtable

import (
	"errors"
	"fmt"
)

// Format describes the encoding, field separator
// and line endings of CSV data.
type Format struct {
	// Encoding of the CSV data, like "UTF-8", "UTF-16LE" or "Windows 1252".
	Encoding string `json:"encoding" yaml:"encoding"`
	// Separator is the single character field delimiter.
	Separator string `json:"separator" yaml:"separator"`
	// Newline is one of "\n", "\r\n", or "\n\r".
	Newline string `json:"newline" yaml:"newline"`
}

// NewFormat returns a UTF-8 Format with "\r\n" line endings
// and the passed separator.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error if the format is nil or incomplete.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

func (f *Format) separatorRune() rune {
	return rune(f.Separator[0])
}

// DetectionEncodings are tried in order by DetectFormat.
var DetectionEncodings = []string{
	"UTF-8",
	"UTF-16LE",
	"ISO 8859-1",
	"Windows 1252", // like ANSI
	"Macintosh",
}

// DetectionEncodingTests are characters with different
// byte representations across DetectionEncodings.
var DetectionEncodingTests = []string{
	"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
	"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
}
