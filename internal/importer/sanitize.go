package importer

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictText = bluemonday.StrictPolicy()

// cleanText strips quoting, markup and control characters from a statement
// field and collapses runs of whitespace. Values that a spreadsheet would
// evaluate as a formula get a leading quote.
func cleanText(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	s = html.UnescapeString(strictText.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	if s != "" {
		switch s[0] {
		case '=', '+', '-', '@':
			s = "'" + s
		}
	}
	return s
}
