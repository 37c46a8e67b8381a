package importer

import (
	"iter"
	"strings"
)

const (
	fieldSeparator = ";"
	minLineFields  = 6
)

// RawLine is a statement line that passed the shape checks.
type RawLine struct {
	Number int // 1-based line number in the input
	Text   string
	Fields []string
}

// Lines yields the transaction-shaped lines of a statement export. Header,
// footer and summary lines are skipped without error. The sequence can be
// ranged over more than once; each pass re-reads text.
func Lines(text string) iter.Seq[RawLine] {
	return func(yield func(RawLine) bool) {
		for i, line := range strings.Split(text, "\n") {
			line = strings.TrimRight(line, "\r")
			if i == 0 {
				line = strings.TrimPrefix(line, "\ufeff")
			}
			fields, ok := splitLine(line)
			if !ok {
				continue
			}
			if !yield(RawLine{Number: i + 1, Text: line, Fields: fields}) {
				return
			}
		}
	}
}

// splitLine returns the fields of line if it looks like a transaction:
// at least six fields, a currency marker, and a first field shaped like a date.
func splitLine(line string) ([]string, bool) {
	if !strings.Contains(line, CurrencyMarker) {
		return nil, false
	}
	fields := strings.Split(line, fieldSeparator)
	if len(fields) < minLineFields {
		return nil, false
	}
	if strings.Count(fields[0], "/") != 2 {
		return nil, false
	}
	return fields, true
}
