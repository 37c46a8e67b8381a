package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var repoDir string

	rootCmd := &cobra.Command{
		Use:     "controle",
		Short:   "Household ledger with credit card statement import",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "data directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(&repoDir),
		newAddCommand(&repoDir),
		newListCommand(&repoDir),
		newSummaryCommand(&repoDir),
		newCategorizeCommand(&repoDir),
		newHistoryCommand(&repoDir),
		newWatchCommand(&repoDir),
		newServeCommand(&repoDir),
	)

	return rootCmd
}

func absRepo(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}
