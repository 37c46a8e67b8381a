package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/ledger"
	"github.com/zaelmari/controle/internal/model"
)

func addFilterFlags(cmd *cobra.Command, f *ledger.Filter) {
	cmd.Flags().StringVar(&f.Party, "party", "", "only entries of this responsible party")
	cmd.Flags().StringVar(&f.ExpenseType, "type", "", "only entries of this expense type")
	cmd.Flags().StringVar(&f.Month, "month", "", "only entries of this month (YYYY-MM)")
}

func newListCommand(repoDir *string) *cobra.Command {
	var f ledger.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*repoDir, func(a *app) error {
				entries, err := a.ledger.Entries(a.context(cmd.Context()))
				if err != nil {
					return err
				}
				printEntries(cmd.OutOrStdout(), f.Apply(entries))
				return nil
			})
		},
	}
	addFilterFlags(cmd, &f)
	return cmd
}

func newSummaryCommand(repoDir *string) *cobra.Command {
	var f ledger.Filter
	var monthly bool
	var byType bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and balance totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*repoDir, func(a *app) error {
				entries, err := a.ledger.Entries(a.context(cmd.Context()))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printSummary(out, ledger.Summarize(entries, f))
				if monthly {
					fmt.Fprintln(out)
					printMonthly(out, ledger.Monthly(entries, f))
				}
				if byType {
					fmt.Fprintln(out)
					printByType(out, ledger.ExpensesByType(entries, f))
				}
				return nil
			})
		},
	}
	addFilterFlags(cmd, &f)
	cmd.Flags().BoolVar(&monthly, "monthly", false, "add a per-month breakdown")
	cmd.Flags().BoolVar(&byType, "by-type", false, "add expenses per expense type")
	return cmd
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func printEntries(out io.Writer, entries []model.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tTYPE\tSUBCATEGORY\tAMOUNT\tPARTY")
	for _, e := range entries {
		date := "-"
		if !e.Date.IsZero() {
			date = e.Date.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			date, e.Description, e.Category, e.ExpenseType, e.Subcategory, money(e.Amount), e.ResponsibleParty)
	}
	tw.Flush()
}

func printSummary(out io.Writer, s ledger.Summary) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Receitas:\t%s\n", money(s.Income))
	fmt.Fprintf(tw, "Despesas:\t%s\n", money(s.Expenses))
	fmt.Fprintf(tw, "Saldo:\t%s\n", money(s.Balance))
	fmt.Fprintf(tw, "Entries:\t%d\n", s.Count)
	if s.Undated > 0 {
		fmt.Fprintf(tw, "Undated:\t%d\n", s.Undated)
	}
	tw.Flush()
}

func printMonthly(out io.Writer, months []ledger.MonthTotal) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tRECEITAS\tDESPESAS\tSALDO")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Month, money(m.Income), money(m.Expenses), money(m.Balance))
	}
	tw.Flush()
}

func printByType(out io.Writer, totals []ledger.TypeTotal) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tDESPESAS\tENTRIES")
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", t.ExpenseType, money(t.Total), t.Count)
	}
	tw.Flush()
}
