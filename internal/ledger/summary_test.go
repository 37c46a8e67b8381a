package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaelmari/controle/internal/model"
)

func sampleLedger() []model.Entry {
	return []model.Entry{
		income(date(2024, 1, 5), "Salário", "5000.00", "Zael"),
		expense(date(2024, 1, 10), "Aluguel", "-1500.00", "Casa", "Casal"),
		expense(date(2024, 1, 20), "Mercado", "-300.00", "Mercado", "Mari"),
		income(date(2024, 2, 5), "Salário", "4000.00", "Mari"),
		expense(date(2024, 2, 11), "Mercado", "-200.00", "Mercado", "Mari"),
		expense(model.Entry{}.Date, "Sem data", "-10.00", "Outros", "Zael"),
	}
}

func TestSummarize_All(t *testing.T) {
	s := Summarize(sampleLedger(), Filter{})
	assert.Equal(t, "9000.00", s.Income.StringFixed(2))
	assert.Equal(t, "-2010.00", s.Expenses.StringFixed(2))
	assert.Equal(t, "6990.00", s.Balance.StringFixed(2))
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 1, s.Undated)
}

func TestSummarize_Filters(t *testing.T) {
	entries := sampleLedger()

	s := Summarize(entries, Filter{Party: "Mari"})
	assert.Equal(t, "4000.00", s.Income.StringFixed(2))
	assert.Equal(t, "-500.00", s.Expenses.StringFixed(2))

	s = Summarize(entries, Filter{ExpenseType: "Mercado"})
	assert.Equal(t, 2, s.Count)
	assert.True(t, s.Income.IsZero())

	s = Summarize(entries, Filter{Month: "2024-01"})
	assert.Equal(t, "3200.00", s.Balance.StringFixed(2))

	s = Summarize(entries, Filter{Party: "Mari", Month: "2024-02", ExpenseType: "Mercado"})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, "-200.00", s.Balance.StringFixed(2))
}

func TestFilterApply(t *testing.T) {
	got := Filter{Party: "Zael"}.Apply(sampleLedger())
	require.Len(t, got, 2)
	assert.Equal(t, "Salário", got[0].Description)
	assert.Equal(t, "Sem data", got[1].Description)
}

func TestMonthly(t *testing.T) {
	months := Monthly(sampleLedger(), Filter{})
	require.Len(t, months, 2, "undated entries are left out")
	assert.Equal(t, "2024-01", months[0].Month)
	assert.Equal(t, "3200.00", months[0].Balance.StringFixed(2))
	assert.Equal(t, 3, months[0].Count)
	assert.Equal(t, "2024-02", months[1].Month)
	assert.Equal(t, "3800.00", months[1].Balance.StringFixed(2))
}

func TestExpensesByType(t *testing.T) {
	totals := ExpensesByType(sampleLedger(), Filter{})
	require.Len(t, totals, 3)
	assert.Equal(t, "Casa", totals[0].ExpenseType)
	assert.Equal(t, "-1500.00", totals[0].Total.StringFixed(2))
	assert.Equal(t, "Mercado", totals[1].ExpenseType)
	assert.Equal(t, 2, totals[1].Count)
	assert.Equal(t, "Outros", totals[2].ExpenseType)
}

func TestFilterOptions(t *testing.T) {
	opts := FilterOptions(sampleLedger())
	assert.Equal(t, []string{"Casal", "Mari", "Zael"}, opts.Parties)
	assert.Equal(t, []string{"2024-01", "2024-02"}, opts.Months)
	assert.Contains(t, opts.ExpenseTypes, "Mercado")
	assert.Contains(t, opts.ExpenseTypes, model.NotApplicable)
}
