package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/categorize"
)

func newCategorizeCommand(repoDir *string) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "categorize <description>",
		Short: "Show how a statement description would be categorized",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absRepo(*repoDir)
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(root)
			if err != nil {
				return err
			}
			if mode == "" {
				mode = cfg.Categorizer.Mode
			}
			c, err := categorize.Load(cfg.RulesPath(root), categorize.Mode(mode))
			if err != nil {
				return err
			}

			res := c.Categorize(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			switch {
			case res.Excluded:
				fmt.Fprintf(out, "excluded by rule %s\n", res.Rule)
			case res.Fallback():
				fmt.Fprintf(out, "%s / %s (fallback)\n", res.Label.Category, res.Label.Subcategory)
			default:
				fmt.Fprintf(out, "%s / %s (rule %s)\n", res.Label.Category, res.Label.Subcategory, res.Rule)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "keywords or rules (default from config)")
	return cmd
}
