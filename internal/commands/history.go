package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/importlog"
)

func newHistoryCommand(repoDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past statement imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absRepo(*repoDir)
			if err != nil {
				return err
			}
			entries, err := importlog.New(root).Read()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No imports yet.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tFILE\tSTATUS\tLINES\tEXCLUDED\tDROPPED\tAPPENDED\tBATCH")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"), e.File, e.Status,
					e.Accepted, e.Excluded, e.Dropped, e.Appended, e.BatchID)
			}
			return tw.Flush()
		},
	}
}
