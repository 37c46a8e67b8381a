package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaelmari/controle/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func expense(d time.Time, desc, amount, typ, party string) model.Entry {
	return model.Entry{
		Date:             d,
		Description:      desc,
		Category:         model.CategoryExpense,
		ExpenseType:      typ,
		Subcategory:      "Diversos",
		Amount:           dec(amount),
		Installments:     model.InstallmentsSingle,
		PaymentMethod:    model.PaymentCreditCard,
		Status:           model.StatusPaid,
		ResponsibleParty: party,
	}
}

func income(d time.Time, desc, amount, party string) model.Entry {
	return model.Entry{
		Date:             d,
		Description:      desc,
		Category:         model.CategoryIncome,
		ExpenseType:      model.NotApplicable,
		Subcategory:      model.NotApplicable,
		Amount:           dec(amount),
		Installments:     model.InstallmentsSingle,
		PaymentMethod:    "Pix",
		Status:           model.StatusPaid,
		ResponsibleParty: party,
	}
}

// memStore is an in-memory Store.
type memStore struct {
	rows     []model.Entry
	loadErr  error
	writeErr error
	loads    int
	writes   int
}

func (m *memStore) LoadAll(_ context.Context) ([]model.Entry, error) {
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]model.Entry(nil), m.rows...), nil
}

func (m *memStore) ReplaceAll(_ context.Context, entries []model.Entry) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.rows = append([]model.Entry(nil), entries...)
	return nil
}
