package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/catalog"
	"github.com/zaelmari/controle/internal/importer"
	"github.com/zaelmari/controle/internal/model"
)

type addOptions struct {
	date          string
	description   string
	category      string
	amount        string
	expenseType   string
	subcategory   string
	installments  string
	paymentMethod string
	status        string
	party         string
	notes         string
}

func newAddCommand(repoDir *string) *cobra.Command {
	var o addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one entry to the ledger",
		Long: `Add an entry by hand. The amount is stored negative for Despesa and
positive for Receita regardless of the sign given. Expenses need an expense
type and subcategory from catalog/expense-types.csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*repoDir, func(a *app) error {
				cat, err := catalog.Load(a.root)
				if err != nil {
					return err
				}
				parties := importer.NewPartyResolver(individuals(a.cfg.Parties.Individuals), a.cfg.Parties.Joint)

				e, err := o.entry(time.Now(), cat, parties.Labels())
				if err != nil {
					return err
				}

				ctx := a.context(cmd.Context())
				if _, err := a.ledger.Append(ctx, []model.Entry{e}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s\n", e.Category, e.Description, money(e.Amount))
				a.commit(ctx, fmt.Sprintf("add: %s %s", e.Description, e.Amount.StringFixed(2)))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.date, "date", "", "entry date, DD/MM/YYYY or YYYY-MM-DD (default today)")
	f.StringVar(&o.description, "description", "", "description (required)")
	f.StringVar(&o.category, "category", "", "Receita or Despesa (required)")
	f.StringVar(&o.amount, "amount", "", "amount, e.g. 1234,56 or 1234.56 (required)")
	f.StringVar(&o.expenseType, "type", "", "expense type (Despesa only)")
	f.StringVar(&o.subcategory, "subcategory", "", "subcategory (Despesa only)")
	f.StringVar(&o.installments, "installments", model.InstallmentsSingle, "installments, e.g. 1/3 or Única")
	f.StringVar(&o.paymentMethod, "payment", model.PaymentMethods[0], "payment method: "+strings.Join(model.PaymentMethods, ", "))
	f.StringVar(&o.status, "status", model.StatusPaid, "status: "+strings.Join(model.Statuses, ", "))
	f.StringVar(&o.party, "party", "", "responsible party (default the joint party)")
	f.StringVar(&o.notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

// entry builds the ledger entry, normalizing the amount sign from the
// category. parties lists the accepted responsible parties, joint last.
func (o addOptions) entry(now time.Time, cat *catalog.Service, parties []string) (model.Entry, error) {
	category := model.EntryCategory(o.category)
	if category != model.CategoryIncome && category != model.CategoryExpense {
		return model.Entry{}, fmt.Errorf("category must be %s or %s, got %q", model.CategoryIncome, model.CategoryExpense, o.category)
	}

	date := now.UTC().Truncate(24 * time.Hour)
	if o.date != "" {
		var err error
		if date, err = parseEntryDate(o.date); err != nil {
			return model.Entry{}, err
		}
	}

	amount, err := parseEntryAmount(o.amount)
	if err != nil {
		return model.Entry{}, err
	}
	if amount.IsZero() {
		return model.Entry{}, errors.New("amount must not be zero")
	}
	amount = amount.Abs()
	if category == model.CategoryExpense {
		amount = amount.Neg()
	}

	expenseType, subcategory := o.expenseType, o.subcategory
	if category == model.CategoryIncome {
		if expenseType == "" {
			expenseType = model.NotApplicable
		}
		if subcategory == "" {
			subcategory = model.NotApplicable
		}
	}
	if err := cat.Check(category, expenseType, subcategory); err != nil {
		return model.Entry{}, err
	}

	if !slices.Contains(model.PaymentMethods, o.paymentMethod) {
		return model.Entry{}, fmt.Errorf("unknown payment method %q (have %s)", o.paymentMethod, strings.Join(model.PaymentMethods, ", "))
	}
	if !slices.Contains(model.Statuses, o.status) {
		return model.Entry{}, fmt.Errorf("unknown status %q (have %s)", o.status, strings.Join(model.Statuses, ", "))
	}
	party := o.party
	if party == "" {
		party = parties[len(parties)-1]
	}
	if !slices.Contains(parties, party) {
		return model.Entry{}, fmt.Errorf("unknown party %q (have %s)", party, strings.Join(parties, ", "))
	}

	return model.Entry{
		Date:             date,
		Description:      strings.TrimSpace(o.description),
		Category:         category,
		ExpenseType:      expenseType,
		Subcategory:      subcategory,
		Amount:           amount,
		Installments:     o.installments,
		PaymentMethod:    o.paymentMethod,
		Status:           o.status,
		ResponsibleParty: party,
		Notes:            o.notes,
	}, nil
}

func parseEntryDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, ok := importer.ParseDate(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date must be DD/MM/YYYY or YYYY-MM-DD, got %q", s)
}

// parseEntryAmount accepts "1234.56" as well as the statement style
// "1.234,56".
func parseEntryAmount(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") {
		if d, ok := importer.ParseAmount(s); ok {
			return d, nil
		}
	} else if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		return d, nil
	}
	return decimal.Decimal{}, fmt.Errorf("invalid amount %q", s)
}
