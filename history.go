package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go-gray/pkg/stats"
)

func newHistoryCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent benchmark runs stored in Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, out)
			if err != nil {
				return err
			}
			if a.cfg.Redis.Addr == "" {
				return errors.New("history needs redis.addr in the config file")
			}

			ctx := cmd.Context()
			client := a.connectRedis(ctx)
			if client == nil {
				return fmt.Errorf("redis at %s is unreachable", a.cfg.Redis.Addr)
			}
			defer client.Close()

			reports, err := client.RecentReports(ctx, int64(a.cfg.HistoryLimit))
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(reports) == 0 {
				fmt.Fprintf(out, "No runs recorded in %s\n", client.Stream())
				return nil
			}

			for _, report := range reports {
				fmt.Fprintf(out, "\n%s  %s  %s\n", report.StartedAt.Format("2006-01-02 15:04:05"), report.RunID, report.InputPath)
				for _, row := range stats.Compare(report.Results) {
					if row.Baseline {
						fmt.Fprintf(out, "  %-28s %8.4fs  baseline\n", row.Label, row.Seconds)
						continue
					}
					fmt.Fprintf(out, "  %-28s %8.4fs  %6.2fx %s\n", row.Label, row.Seconds, row.Speedup, row.Verdict())
				}
				for _, f := range report.Failures {
					fmt.Fprintf(out, "  %-28s skipped (%s)\n", f.Label, f.Kind)
				}
			}
			return nil
		},
	}
}
