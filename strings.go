package sorttable

import (
	"slices"
	"strings"
)

// SortStrings returns a sorted copy of strs
// ordered by DefaultCollator in direction.
func SortStrings(strs []string, direction Direction) []string {
	sorted := slices.Clone(strs)
	collator := DefaultCollator()
	slices.SortStableFunc(sorted, func(a, b string) int {
		if direction == Descending {
			return -collator.Compare(a, b)
		}
		return collator.Compare(a, b)
	})
	return sorted
}

// TrimSymbols removes runes from s that repeat
// more than size times in a row.
// A negative size returns s unchanged
// and a size of zero returns an empty string.
func TrimSymbols(s string, size int) string {
	if size < 0 {
		return s
	}
	if size == 0 {
		return ""
	}
	var (
		b     strings.Builder
		last  rune
		count int
	)
	b.Grow(len(s))
	for i, r := range s {
		if i == 0 || r != last {
			last = r
			count = 0
		}
		count++
		if count > size {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
