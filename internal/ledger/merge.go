package ledger

import (
	"github.com/zaelmari/controle/internal/model"
)

// Defaults fills the entry fields a statement does not carry.
type Defaults struct {
	Installments  string
	PaymentMethod string
	Status        string
	Notes         string
}

// ImportDefaults are the values for entries created from a card statement.
func ImportDefaults() Defaults {
	return Defaults{
		Installments:  model.InstallmentsSingle,
		PaymentMethod: model.PaymentCreditCard,
		Status:        model.StatusPaid,
		Notes:         model.NotesImported,
	}
}

// MergeStats counts the transactions Merge left out.
type MergeStats struct {
	Excluded   int // dropped by an exclusion rule
	Incomplete int // date or amount did not parse
	Zero       int // zero amount, neither income nor expense
}

// Dropped is the number of transactions omitted for bad data.
func (s MergeStats) Dropped() int {
	return s.Incomplete + s.Zero
}

// Merge reshapes categorized transactions into ledger entries. The amount
// sign was fixed when the statement was parsed, so the category follows it:
// negative amounts are Despesa, positive ones (refunds) are Receita.
func Merge(items []model.Categorized, d Defaults) ([]model.Entry, MergeStats) {
	var stats MergeStats
	entries := make([]model.Entry, 0, len(items))

	for _, it := range items {
		txn := it.Transaction
		switch {
		case it.Excluded:
			stats.Excluded++
			continue
		case !txn.Complete():
			stats.Incomplete++
			continue
		case txn.Amount.Decimal.IsZero():
			stats.Zero++
			continue
		}

		amount := txn.Amount.Decimal
		entries = append(entries, model.Entry{
			Date:             txn.Date,
			Description:      txn.Description,
			Category:         model.CategoryForAmount(amount),
			ExpenseType:      it.Label.Category,
			Subcategory:      it.Label.Subcategory,
			Amount:           amount,
			Installments:     d.Installments,
			PaymentMethod:    d.PaymentMethod,
			Status:           d.Status,
			ResponsibleParty: txn.Party,
			Notes:            d.Notes,
		})
	}
	return entries, stats
}
