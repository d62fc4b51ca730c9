package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/domonda/go-types/charset"
)

// Parse parses CSV data in the passed format into rows of fields.
// Empty lines are skipped.
func Parse(data []byte, format *Format) ([][]string, error) {
	err := format.Validate()
	if err != nil {
		return nil, err
	}
	data, err = decode(data, format.Encoding)
	if err != nil {
		return nil, err
	}
	data, headerSep := trimSepHeaderLine(data)
	if headerSep != "" && headerSep != format.Separator {
		return nil, fmt.Errorf("separator %q in header line is different from format separator %q", headerSep, format.Separator)
	}
	return readRows(data, format.separatorRune())
}

// ParseDetectFormat detects the format of CSV data
// and parses it into rows of fields.
func ParseDetectFormat(data []byte) ([][]string, *Format, error) {
	decoded, format, err := detectFormat(data)
	if err != nil {
		return nil, nil, err
	}
	rows, err := readRows(decoded, format.separatorRune())
	if err != nil {
		return nil, nil, err
	}
	return rows, format, nil
}

// DetectFormat returns the detected Format of CSV data.
//
// The encoding is the first of DetectionEncodings
// that decodes DetectionEncodingTests,
// the newline is "\r\n" if the data contains any,
// and the separator is the one declared by a "sep=X" header line
// or else the most frequent of comma, semicolon, and tab.
func DetectFormat(data []byte) (*Format, error) {
	_, format, err := detectFormat(data)
	return format, err
}

func detectFormat(data []byte) (decoded []byte, format *Format, err error) {
	encodings := make([]charset.Encoding, len(DetectionEncodings))
	for i, name := range DetectionEncodings {
		encodings[i], err = charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
	}
	format = new(Format)
	data, format.Encoding, err = charset.AutoDecode(data, encodings, DetectionEncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = charset.TrimBOM(sanitizeUTF8(data), charset.BOMUTF8)

	// Simple rule: if there are \r\n line endings
	// then take those because that's the standard
	if bytes.Contains(data, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	data, format.Separator = trimSepHeaderLine(data)
	if format.Separator != "" {
		return data, format, nil
	}
	var (
		commas     = bytes.Count(data, []byte{','})
		semicolons = bytes.Count(data, []byte{';'})
		tabs       = bytes.Count(data, []byte{'\t'})
	)
	switch {
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return data, format, nil
}

func decode(data []byte, encoding string) ([]byte, error) {
	if encoding == "UTF-8" {
		return sanitizeUTF8(charset.TrimBOM(data, charset.BOMUTF8)), nil
	}
	enc, err := charset.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	data, err = enc.Decode(data)
	if err != nil {
		return nil, err
	}
	return sanitizeUTF8(data), nil
}

func readRows(data []byte, separator rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = separator
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, row)
	}
}

func isEmptyRow(row []string) bool {
	for _, field := range row {
		if field != "" {
			return false
		}
	}
	return true
}

// trimSepHeaderLine removes a first line "sep=X" or "SEP=X",
// optionally enclosed in double quotes,
// and returns the declared separator X.
func trimSepHeaderLine(data []byte) ([]byte, string) {
	line, rest, _ := bytes.Cut(data, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) == 7 && line[0] == '"' && line[6] == '"' {
		line = line[1:6]
	}
	if len(line) != 5 || !(bytes.HasPrefix(line, []byte("sep=")) || bytes.HasPrefix(line, []byte("SEP="))) {
		return data, ""
	}
	return bytes.TrimPrefix(rest, []byte{'\r'}), string(line[4:5])
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			// \u00a0 is No-Break Space (NBSP)
			case '\uFFFD', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
