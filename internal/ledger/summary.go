package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/zaelmari/controle/internal/model"
)

// Filter narrows entries for reporting. Empty fields match everything.
type Filter struct {
	Party       string `json:"party,omitempty"`
	ExpenseType string `json:"expense_type,omitempty"`
	Month       string `json:"month,omitempty"` // "YYYY-MM"
}

// Match reports whether e passes the filter.
func (f Filter) Match(e model.Entry) bool {
	if f.Party != "" && e.ResponsibleParty != f.Party {
		return false
	}
	if f.ExpenseType != "" && e.ExpenseType != f.ExpenseType {
		return false
	}
	if f.Month != "" && e.Month() != f.Month {
		return false
	}
	return true
}

// Apply returns the entries that pass f, in order.
func (f Filter) Apply(entries []model.Entry) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Summary totals a set of entries. Expenses keep their stored negative sign,
// so Balance is Income + Expenses.
type Summary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int             `json:"count"`
	Undated  int             `json:"undated"`
}

func (s *Summary) add(e model.Entry) {
	s.Count++
	if e.Date.IsZero() {
		s.Undated++
	}
	switch e.Category {
	case model.CategoryIncome:
		s.Income = s.Income.Add(e.Amount)
	case model.CategoryExpense:
		s.Expenses = s.Expenses.Add(e.Amount)
	}
	s.Balance = s.Income.Add(s.Expenses)
}

// Summarize totals the entries that pass f.
func Summarize(entries []model.Entry, f Filter) Summary {
	var s Summary
	for _, e := range entries {
		if f.Match(e) {
			s.add(e)
		}
	}
	return s
}

// MonthTotal is one month of a rollup.
type MonthTotal struct {
	Month string `json:"month"`
	Summary
}

// Monthly totals the dated entries that pass f per month, oldest first.
func Monthly(entries []model.Entry, f Filter) []MonthTotal {
	byMonth := make(map[string]*Summary)
	for _, e := range entries {
		m := e.Month()
		if m == "" || !f.Match(e) {
			continue
		}
		s, ok := byMonth[m]
		if !ok {
			s = &Summary{}
			byMonth[m] = s
		}
		s.add(e)
	}

	months := make([]MonthTotal, 0, len(byMonth))
	for m, s := range byMonth {
		months = append(months, MonthTotal{Month: m, Summary: *s})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// TypeTotal is the expense total of one expense type.
type TypeTotal struct {
	ExpenseType string          `json:"expense_type"`
	Total       decimal.Decimal `json:"total"`
	Count       int             `json:"count"`
}

// ExpensesByType totals Despesa entries that pass f per expense type,
// largest spend first.
func ExpensesByType(entries []model.Entry, f Filter) []TypeTotal {
	byType := make(map[string]*TypeTotal)
	var order []string
	for _, e := range entries {
		if !e.IsExpense() || !f.Match(e) {
			continue
		}
		t, ok := byType[e.ExpenseType]
		if !ok {
			t = &TypeTotal{ExpenseType: e.ExpenseType}
			byType[e.ExpenseType] = t
			order = append(order, e.ExpenseType)
		}
		t.Total = t.Total.Add(e.Amount)
		t.Count++
	}

	totals := make([]TypeTotal, 0, len(order))
	for _, name := range order {
		totals = append(totals, *byType[name])
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total.LessThan(totals[j].Total) })
	return totals
}

// Options lists the distinct values available for each filter.
type Options struct {
	Parties      []string `json:"parties"`
	ExpenseTypes []string `json:"expense_types"`
	Months       []string `json:"months"`
}

// FilterOptions collects sorted distinct non-empty filter values.
func FilterOptions(entries []model.Entry) Options {
	parties := make(map[string]bool)
	types := make(map[string]bool)
	months := make(map[string]bool)
	for _, e := range entries {
		parties[e.ResponsibleParty] = true
		types[e.ExpenseType] = true
		months[e.Month()] = true
	}
	return Options{
		Parties:      sortedKeys(parties),
		ExpenseTypes: sortedKeys(types),
		Months:       sortedKeys(months),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
