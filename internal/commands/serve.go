package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zaelmari/controle/internal/importer"
	"github.com/zaelmari/controle/internal/server"
)

func newServeCommand(repoDir *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*repoDir, func(a *app) error {
				if addr == "" {
					addr = a.cfg.Server.Addr
				}
				var commitMu sync.Mutex
				srv := server.New(server.Params{
					Ledger:   a.ledger,
					Importer: a.imports,
					AfterImport: func(ctx context.Context, rep importer.Report) {
						commitMu.Lock()
						defer commitMu.Unlock()
						a.commit(ctx, fmt.Sprintf("import: %d entries from %s", rep.Appended, rep.File))
					},
					Log:           a.log,
					RatePerSecond: a.cfg.Server.RatePerSecond,
					Burst:         a.cfg.Server.Burst,
				})
				return srv.ListenAndServe(a.context(cmd.Context()), addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
