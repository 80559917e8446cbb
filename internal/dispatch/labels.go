package dispatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label turns a column name into a caption: punctuation and underscores
// become spaces and every word is title-cased ("unit_price" -> "Unit Price").
func Label(name string) string {
	spaced := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, name)
	// A Caser carries state, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(strings.Fields(spaced), " "))
}

// labelsFor captions every named column, letting overrides win.
func labelsFor(names []string, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(names)+len(overrides))
	for _, n := range names {
		out[n] = Label(n)
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
