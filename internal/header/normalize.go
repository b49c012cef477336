// Package header canonicalizes raw column headers and resolves them to
// canonical fields through alias tables and per-import overrides.
package header

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{feff}]+`)
	parens        = strings.NewReplacer("（", "(", "）", ")")
)

// Normalize strips BOM artifacts and surrounding whitespace, maps full-width
// parentheses to ASCII and collapses whitespace runs to one space.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
	s = parens.Replace(s)
	return whitespaceRun.ReplaceAllString(s, " ")
}
