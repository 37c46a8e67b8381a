package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/zaelmari/controle/internal/model"
)

// ValidationError describes a single invariant violation in a batch of new entries.
type ValidationError struct {
	Invariant   int
	Row         int    // 1-based position in the batch
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [row %d]: %s", e.Invariant, e.Row, e.Description)
}

// ValidateEntries checks entries about to be written:
//  1. category is Receita or Despesa
//  2. amount is non-zero and negative exactly when the category is Despesa
//     (checked only when the category is known)
//  3. date is set
//  4. amount has at most two decimal places
//
// Rows already in the store are not re-validated.
func ValidateEntries(entries []model.Entry) []ValidationError {
	var errs []ValidationError
	hundred := decimal.NewFromInt(100)

	for i, e := range entries {
		row := i + 1

		if e.Category != model.CategoryIncome && e.Category != model.CategoryExpense {
			errs = append(errs, ValidationError{
				Invariant:   1,
				Row:         row,
				Description: fmt.Sprintf("unknown category %q", e.Category),
			})
		} else if e.Amount.IsZero() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Row:         row,
				Description: "amount is zero",
			})
		} else if e.Amount.IsNegative() != e.IsExpense() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Row:         row,
				Description: fmt.Sprintf("amount %s has the wrong sign for %s", e.Amount.StringFixed(2), e.Category),
			})
		}

		if e.Date.IsZero() {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Row:         row,
				Description: "missing date",
			})
		}

		scaled := e.Amount.Mul(hundred)
		if !scaled.Equal(scaled.Truncate(0)) {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Row:         row,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", e.Amount),
			})
		}
	}
	return errs
}
