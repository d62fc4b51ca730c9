package csvtable

import (
	"strconv"
	"strings"
)

// ParseFloat parses a number with a dot or comma as decimal separator.
// Thousands separators are accepted if the number
// has both dots and commas, like "1.234,5" or "1,234.5".
func ParseFloat(str string) (float64, error) {
	f, err := strconv.ParseFloat(str, 64)
	if err == nil {
		return f, nil
	}
	numDot := strings.Count(str, ".")
	numComma := strings.Count(str, ",")
	var normalized string
	switch {
	case numComma == 1 && numDot == 0:
		normalized = strings.Replace(str, ",", ".", 1)
	case numComma > 0 && numDot > 0 && strings.LastIndexByte(str, ',') > strings.LastIndexByte(str, '.'):
		// 1.234,5
		if numComma > 1 {
			return 0, err
		}
		normalized = strings.Replace(strings.ReplaceAll(str, ".", ""), ",", ".", 1)
	case numComma > 0 && numDot == 1:
		// 1,234.5
		normalized = strings.ReplaceAll(str, ",", "")
	default:
		return 0, err
	}
	f, e := strconv.ParseFloat(normalized, 64)
	if e != nil {
		return 0, err // return original error
	}
	return f, nil
}
