package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rangen-network/rangen/pkg/audit"
	"github.com/rangen-network/rangen/pkg/cli"
	"github.com/rangen-network/rangen/pkg/merge"
	"github.com/rangen-network/rangen/pkg/util"
)

var (
	rollSkeleton     string
	rollRadio        string
	rollTransmission string
	rollOutput       string
)

var rolloutCmd = &cobra.Command{
	Use:   "rollout <station>",
	Short: "Build a complete new-site document from a skeleton",
	Long: `Rollout deep-copies a skeleton document, substitutes the station identity
into every distinguished name that encodes it, addresses transport from the
transmission table and expands the sector subtree once per radio table row.

Examples:
  rangen rollout Harbor_East --skeleton skeleton.xml --radio radio.xlsx --transmission plan.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		station := args[0]

		skeleton, err := readInput(rollSkeleton, "skeleton")
		if err != nil {
			return err
		}
		radio, err := readInput(rollRadio, "radio")
		if err != nil {
			return err
		}
		transmission, err := readInput(rollTransmission, "transmission")
		if err != nil {
			return err
		}

		start := time.Now()
		out, err := merge.RunRollout(skeleton, radio, transmission, station, merge.RolloutOptions{})
		ev := audit.NewEvent(currentUser(), station, audit.OpRollout).
			WithInputFiles(rollSkeleton, rollRadio, rollTransmission).
			WithDuration(time.Since(start))
		if err != nil {
			audit.Log(ev.WithError(err))
			return err
		}

		output := rollOutput
		if output == "" {
			output = util.SanitizeFilename(station) + "_rollout.xml"
		}
		if err := os.WriteFile(output, out, 0o644); err != nil {
			audit.Log(ev.WithError(err))
			return fmt.Errorf("writing %s: %w", output, err)
		}

		doc, err := merge.LoadForViewing(out)
		if err != nil {
			return err
		}
		audit.Log(ev.WithOutputFile(output).WithObjects(doc.Len()).WithSuccess())

		fmt.Printf("%s %s (%d objects)\n", cli.Green("Generated"), output, doc.Len())
		return nil
	},
}

func init() {
	rolloutCmd.Flags().StringVarP(&rollSkeleton, "skeleton", "k", "", "Skeleton document (XML)")
	rolloutCmd.Flags().StringVarP(&rollRadio, "radio", "a", "", "Radio plan table (CSV or Excel)")
	rolloutCmd.Flags().StringVarP(&rollTransmission, "transmission", "t", "", "Transmission plan table (CSV or Excel)")
	rolloutCmd.Flags().StringVarP(&rollOutput, "output", "o", "", "Output file (default <station>_rollout.xml)")
}
