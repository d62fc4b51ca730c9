package sorttable

import (
	"cmp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocales is the locale preference list
// used by DefaultCollator.
var DefaultLocales = []language.Tag{language.Russian, language.English}

// DefaultCollator returns the shared Collator for DefaultLocales.
var DefaultCollator = sync.OnceValue(func() *Collator {
	return NewCollator(DefaultLocales...)
})

// Collator compares strings with locale-aware collation
// where upper case sorts before lower case for strings
// that are otherwise equal.
// For languages written in Cyrillic, Cyrillic letters
// sort before Latin letters and Latin before other scripts.
// Remaining ties are broken by byte order,
// so Compare only returns 0 for identical strings.
//
// A Collator is safe for concurrent use.
type Collator struct {
	tag           language.Tag
	cyrillicFirst bool

	mu     sync.Mutex // guards the collate.Collator buffers
	folded *collate.Collator
	exact  *collate.Collator
}

// NewCollator returns a Collator for the best match
// of the locale preference list among the supported
// collation locales.
// Without locales the root collation is used.
func NewCollator(locales ...language.Tag) *Collator {
	tag := language.Und
	if len(locales) > 0 {
		tag, _, _ = language.NewMatcher(collate.Supported()).Match(locales...)
	}
	script, _ := tag.Script()
	return &Collator{
		tag:           tag,
		cyrillicFirst: script == scriptCyrillic,
		folded:        collate.New(tag, collate.IgnoreCase),
		exact:         collate.New(tag),
	}
}

// Language returns the matched collation language.
func (c *Collator) Language() language.Tag {
	return c.tag
}

// Compare returns -1, 0, or +1.
func (c *Collator) Compare(a, b string) int {
	if a == b {
		return 0
	}
	if c.cyrillicFirst {
		if r := compareScripts(a, b); r != 0 {
			return r
		}
	}
	c.mu.Lock()
	r := c.folded.CompareString(a, b)
	c.mu.Unlock()
	if r != 0 {
		return r
	}
	if r = compareUpperFirst(a, b); r != 0 {
		return r
	}
	c.mu.Lock()
	r = c.exact.CompareString(a, b)
	c.mu.Unlock()
	if r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

var scriptCyrillic = language.MustParseScript("Cyrl")

// compareScripts orders a and b by the script of the first letters
// that differ ignoring case: Cyrillic, Latin, then all others.
// It returns 0 if that position holds no two letters
// of different script rank.
func compareScripts(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		x, xSize := utf8.DecodeRuneInString(a)
		y, ySize := utf8.DecodeRuneInString(b)
		a, b = a[xSize:], b[ySize:]
		if x == y || unicode.ToLower(x) == unicode.ToLower(y) {
			continue
		}
		if !unicode.IsLetter(x) || !unicode.IsLetter(y) {
			return 0
		}
		return cmp.Compare(scriptRank(x), scriptRank(y))
	}
	return 0
}

func scriptRank(r rune) int {
	switch {
	case unicode.Is(unicode.Cyrillic, r):
		return 0
	case unicode.Is(unicode.Latin, r):
		return 1
	}
	return 2
}

// compareUpperFirst looks for the first rune position
// where a and b only differ by case
// and orders the upper case rune first.
func compareUpperFirst(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		x, xSize := utf8.DecodeRuneInString(a)
		y, ySize := utf8.DecodeRuneInString(b)
		a, b = a[xSize:], b[ySize:]
		if x == y {
			continue
		}
		if unicode.ToLower(x) != unicode.ToLower(y) {
			return 0
		}
		switch {
		case unicode.IsUpper(x) && !unicode.IsUpper(y):
			return -1
		case unicode.IsUpper(y) && !unicode.IsUpper(x):
			return 1
		}
		return 0
	}
	return 0
}
