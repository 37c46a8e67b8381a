package importer

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyMarker prefixes every amount in a statement export.
const CurrencyMarker = "R$"

const statementDateFormat = "02/01/2006"

// amountShape accepts "1234", "1.234", "1.234,56" and "39,90" with an optional
// sign. More than two decimal places is not a currency amount.
var amountShape = regexp.MustCompile(`^[-+]?\d+(\.\d{3})*(,\d{1,2})?$`)

// ParseAmount converts a Brazilian currency string like `"R$ 1.234,56"` into
// a decimal and negates it, since every statement amount is a card expense.
// It reports false when the text is not a well-formed amount.
func ParseAmount(text string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(text, CurrencyMarker, "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', ' ', '\t', '\u00a0':
			return -1
		}
		return r
	}, s)
	if !amountShape.MatchString(s) {
		return decimal.Decimal{}, false
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d.Neg(), true
}

// ParseDate parses a strict DD/MM/YYYY date. It reports false on anything else,
// including calendar-invalid dates like 31/02/2024.
func ParseDate(text string) (time.Time, bool) {
	s := strings.Trim(strings.TrimSpace(text), `"`)
	t, err := time.Parse(statementDateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
