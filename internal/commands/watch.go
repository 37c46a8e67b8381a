package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"
)

func newWatchCommand(repoDir *string) *cobra.Command {
	var schedule string
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import statements dropped into import/ on a schedule",
		Long: `Scan import/ right away and then on the cron schedule from
import.schedule (default "@every 1m"). Schedules use six fields with
seconds, or descriptors such as @hourly and @every 5m.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*repoDir, func(a *app) error {
				if schedule == "" {
					schedule = a.cfg.Import.Schedule
				}
				return runWatch(a.context(cmd.Context()), a, cmd.OutOrStdout(), schedule, once)
			})
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "scan once and exit")
	return cmd
}

func runWatch(ctx context.Context, a *app, out io.Writer, schedule string, once bool) error {
	var mu sync.Mutex
	scan := func() {
		if !mu.TryLock() {
			a.log.Debug().Msg("previous scan still running")
			return
		}
		defer mu.Unlock()
		if err := runScan(ctx, a, out, "", false); err != nil {
			a.log.Error().Err(err).Msg("scan failed")
		}
	}

	c := cron.New()
	if err := c.AddFunc(schedule, scan); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	scan()
	if once {
		return nil
	}

	a.log.Info().Str("schedule", schedule).Msg("watching import/")
	c.Start()
	<-ctx.Done()
	c.Stop()

	// Wait for a scan in flight.
	mu.Lock()
	defer mu.Unlock()
	return nil
}
