package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a statement line after field extraction and normalization.
type Transaction struct {
	Date        time.Time           // zero if the date did not parse
	Description string
	Amount      decimal.NullDecimal // invalid if the amount did not parse; negated at parse time
	PayerRaw    string
	Party       string
}

// Complete reports whether both date and amount parsed.
func (t Transaction) Complete() bool {
	return !t.Date.IsZero() && t.Amount.Valid
}
