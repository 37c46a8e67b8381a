package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/catalog"
	"github.com/zaelmari/controle/internal/categorize"
	"github.com/zaelmari/controle/internal/config"
	"github.com/zaelmari/controle/internal/gitops"
	"github.com/zaelmari/controle/internal/importer"
	"github.com/zaelmari/controle/internal/store"
)

var backends = []string{string(store.BackendCSV), string(store.BackendXLSX), string(store.BackendSQLite)}

func newInitCommand() *cobra.Command {
	var backend string
	var mode string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := absRepo(dir)
			if err != nil {
				return err
			}

			if !slices.Contains(backends, backend) {
				return fmt.Errorf("unknown ledger backend %q (want one of %v)", backend, backends)
			}
			if mode != string(categorize.ModeKeywords) && mode != string(categorize.ModeRules) {
				return fmt.Errorf("unknown categorizer mode %q", mode)
			}

			return runInit(cmd.Context(), absDir, backend, mode, !noGit)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "csv", "ledger backend: csv, xlsx or sqlite")
	cmd.Flags().StringVar(&mode, "mode", string(categorize.ModeKeywords), "categorizer mode: keywords or rules")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(ctx context.Context, dir, backend, mode string, useGit bool) error {
	if _, err := os.Stat(filepath.Join(dir, config.File)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.File, dir)
	}

	dirs := []string{
		"ledger",
		"rules",
		"catalog",
		"logs",
		importer.ImportDir,
		filepath.Join(importer.ImportDir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Ledger.Backend = backend
	cfg.Categorizer.Mode = mode
	cfg.Git.AutoCommit = useGit
	if err := config.Save(filepath.Join(dir, config.File), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, categorize.RulesPath), categorize.DefaultRulesYAML(), 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	if err := catalog.NewService(catalog.DefaultCatalog()).Save(dir); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}

	if err := createLedger(ctx, dir, cfg); err != nil {
		return err
	}

	gitignore := ".env\nledger/*.db-wal\nledger/*.db-shm\nledger/.*.tmp\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, importer.ImportDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Printf("Initialized controle data directory at %s\n", dir)
		return nil
	}

	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	repo, err := gitops.Init(ctx, dir, author)
	if err != nil {
		return err
	}
	hash, err := repo.CommitAll(ctx, "init: controle data directory")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized controle data directory at %s (%s)\n", dir, hash)
	return nil
}

// createLedger writes an empty ledger so the file exists with its header.
func createLedger(ctx context.Context, dir string, cfg *config.Config) error {
	path, err := cfg.LedgerPath(dir)
	if err != nil {
		return err
	}
	st, err := store.Open(store.Options{
		Backend: store.Backend(cfg.Ledger.Backend),
		Path:    path,
		Sheet:   cfg.Ledger.Sheet,
	})
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	defer st.Close()

	if err := st.ReplaceAll(ctx, nil); err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	return nil
}
