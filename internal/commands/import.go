package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/importer"
)

func newImportCommand(repoDir *string) *cobra.Command {
	var format string
	var scan bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [statement...]",
		Short: "Import credit card statements into the ledger",
		Long: `Import semicolon-delimited card statement exports. Each transaction is
categorized with the rules in rules/categorization-rules.yaml and appended to
the ledger. Importing the same statement twice appends its entries twice.

With --scan, every .csv and .txt file in import/ is imported and moved to
import/processed/ on success.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scan == (len(args) > 0) {
				return errors.New("pass statement files or --scan, not both")
			}
			return withApp(*repoDir, func(a *app) error {
				ctx := a.context(cmd.Context())
				if scan {
					return runScan(ctx, a, cmd.OutOrStdout(), format, dryRun)
				}
				return runImport(ctx, a, cmd.OutOrStdout(), args, format, dryRun)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "statement format, or auto to detect it (default from config)")
	cmd.Flags().BoolVar(&scan, "scan", false, "import every statement waiting in import/")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the entries without writing the ledger")

	return cmd
}

func runImport(ctx context.Context, a *app, out io.Writer, paths []string, format string, dryRun bool) error {
	if format == "" {
		format = a.cfg.Import.Format
	}

	var errs []error
	var names []string
	appended := 0
	for _, p := range paths {
		rep, err := a.imports.ImportFile(ctx, p, format, dryRun)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		printReport(out, rep, dryRun)
		names = append(names, rep.File)
		appended += rep.Appended
	}

	if appended > 0 {
		a.commit(ctx, fmt.Sprintf("import: %d entries from %s", appended, strings.Join(names, ", ")))
	}
	return errors.Join(errs...)
}

// runScan imports the statements waiting in import/. A file moves to
// import/processed/ only after its entries are written.
func runScan(ctx context.Context, a *app, out io.Writer, format string, dryRun bool) error {
	files, err := importer.Scan(a.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No statements waiting in import/.")
		return nil
	}

	if format == "" {
		format = a.cfg.Import.Format
	}

	var errs []error
	var names []string
	appended := 0
	for _, f := range files {
		rep, err := a.imports.ImportFile(ctx, f.Path, format, dryRun)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			continue
		}
		printReport(out, rep, dryRun)
		if dryRun {
			continue
		}
		if _, err := importer.MarkProcessed(a.root, f.Name); err != nil {
			errs = append(errs, err)
			continue
		}
		names = append(names, f.Name)
		appended += rep.Appended
	}

	if len(names) > 0 {
		a.commit(ctx, fmt.Sprintf("import: %d entries from %s", appended, strings.Join(names, ", ")))
	}
	return errors.Join(errs...)
}

func printReport(out io.Writer, rep importer.Report, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "%s: would append %d entries (%d lines, %d excluded, %d dropped)\n",
			rep.File, len(rep.Entries), rep.Accepted, rep.Excluded, rep.Dropped)
		printEntries(out, rep.Entries)
		return
	}
	fmt.Fprintf(out, "%s: appended %d entries (%d lines, %d excluded, %d dropped) batch %s\n",
		rep.File, rep.Appended, rep.Accepted, rep.Excluded, rep.Dropped, rep.BatchID)
}
