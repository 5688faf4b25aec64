package cards

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// unsafeChars matches everything outside letters, digits, underscore,
// space and hyphen. Other whitespace is folded to a space first.
var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_ -]`)

// ID derives a card id from a scientist's name.
//
// Punctuation is dropped, then a name with two or more words becomes
// "last_first" in lower case ("Marie Curie" -> "curie_marie"). A single
// word is lower-cased on its own ("Plato" -> "plato"). Middle names and
// particles are ignored, so "Charles Robert Darwin" and "Charles Darwin"
// share an id. An empty or all-punctuation name yields "".
func ID(name string) string {
	lower := cases.Lower(language.Und)
	cleaned := unsafeChars.ReplaceAllString(strings.Map(foldSpace, name), "")
	parts := strings.Fields(cleaned)

	if len(parts) >= 2 {
		return lower.String(parts[len(parts)-1]) + "_" + lower.String(parts[0])
	}
	return strings.Join(strings.Fields(lower.String(cleaned)), "_")
}

// foldSpace maps any Unicode whitespace rune to an ASCII space.
func foldSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}
