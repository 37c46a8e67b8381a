package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryCategory is the top-level kind of a ledger entry.
type EntryCategory string

const (
	CategoryIncome  EntryCategory = "Receita"
	CategoryExpense EntryCategory = "Despesa"
)

// Values used by entries created through import or manual entry.
const (
	InstallmentsSingle    = "Única"
	PaymentCreditCard     = "Cartão Crédito"
	StatusPaid            = "Pago"
	StatusToPay           = "A Pagar"
	StatusFuture          = "Futuro"
	NotesImported         = "Importado da fatura"
	PartyJoint            = "Casal"
	NotApplicable         = "—"
	DefaultFallbackType   = "Outros"
	DefaultFallbackSubcat = "Diversos"
)

// PaymentMethods lists the accepted payment methods in display order.
var PaymentMethods = []string{"Transferência", PaymentCreditCard, "Boleto", "Pix", "Dinheiro"}

// Statuses lists the accepted entry statuses in display order.
var Statuses = []string{StatusPaid, StatusToPay, StatusFuture}

// Entry is one row of the ledger.
type Entry struct {
	Date             time.Time       // zero when the stored cell was blank
	Description      string
	Category         EntryCategory
	ExpenseType      string
	Subcategory      string
	Amount           decimal.Decimal // negative for Despesa
	Installments     string
	PaymentMethod    string
	Status           string
	ResponsibleParty string
	Notes            string
}

// IsExpense reports whether the entry is a Despesa.
func (e Entry) IsExpense() bool {
	return e.Category == CategoryExpense
}

// Month returns the entry month as "YYYY-MM", or "" for an undated entry.
func (e Entry) Month() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("2006-01")
}

// IsBlank reports whether every field of the entry is empty.
func (e Entry) IsBlank() bool {
	return e.Date.IsZero() && e.Description == "" && e.Category == "" &&
		e.ExpenseType == "" && e.Subcategory == "" && e.Amount.IsZero() &&
		e.Installments == "" && e.PaymentMethod == "" && e.Status == "" &&
		e.ResponsibleParty == "" && e.Notes == ""
}

// CategoryForAmount returns the category implied by a normalized amount sign.
func CategoryForAmount(amount decimal.Decimal) EntryCategory {
	if amount.IsNegative() {
		return CategoryExpense
	}
	return CategoryIncome
}
