package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rangen-network/rangen/pkg/audit"
	"github.com/rangen-network/rangen/pkg/cli"
)

var (
	historyStation  string
	historyUser     string
	historyLast     string
	historyLimit    int
	historyFailures bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past generation runs",
	Long: `History lists the audit log of past generation runs.

Examples:
  rangen history --station Downtown_West
  rangen history --last 24h
  rangen history --failures`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Station:     historyStation,
			User:        historyUser,
			Limit:       historyLimit,
			FailureOnly: historyFailures,
		}
		if historyLast != "" {
			d, err := time.ParseDuration(historyLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", historyLast)
			}
			filter.StartTime = time.Now().Add(-d)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		}

		if len(events) == 0 {
			fmt.Println("No events found")
			return nil
		}

		t := cli.NewTable("TIME", "USER", "STATION", "OPERATION", "OUTPUT", "STATUS")
		for _, e := range events {
			status := cli.Green("ok")
			if !e.Success {
				status = cli.Red("failed")
			}
			t.Row(e.Timestamp.Format("2006-01-02 15:04:05"), e.User, e.Station,
				e.Operation, e.OutputFile, status)
		}
		t.Flush()
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyStation, "station", "", "Filter by station")
	historyCmd.Flags().StringVar(&historyUser, "user", "", "Filter by user")
	historyCmd.Flags().StringVar(&historyLast, "last", "", "Events from the last duration (e.g. 24h)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum events to show")
	historyCmd.Flags().BoolVar(&historyFailures, "failures", false, "Show only failed runs")
}
