// Rangen - Radio Network Configuration Generator
//
// A CLI for generating radio base-station configuration documents:
//   - modernize: add 5G to an existing station from a reference template
//   - rollout:   build a complete new-site document from a skeleton
//   - view:      summarize a configuration document
//   - analyze:   recommend reference templates for an existing station
//
// Examples:
//
//	rangen modernize Downtown_West --existing site.xml --reference 5G-S3-AHEGA.xml --transmission plan.xlsx
//	rangen rollout Harbor_East --skeleton skeleton.xml --radio radio.xlsx --transmission plan.xlsx
//	rangen view Downtown_West_5G.xml
//	rangen analyze site.xml
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rangen-network/rangen/pkg/audit"
	"github.com/rangen-network/rangen/pkg/settings"
	"github.com/rangen-network/rangen/pkg/util"
	"github.com/rangen-network/rangen/pkg/version"
)

var (
	verbose    bool
	jsonOutput bool
	dataDir    string

	userSettings *settings.Settings
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "rangen",
	Short:             "Radio Network Configuration Generator",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Rangen generates radio base-station configuration documents.

Modernization attaches a new technology to an existing station from a
reference template; rollout builds a complete new-site document from a
skeleton. Both read station addressing from planning tables (CSV or Excel).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Settings and meta commands run without the full bootstrap.
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if cmd == settingsCmd || cmd.Parent() == settingsCmd {
			return nil
		}

		var err error
		userSettings, err = settings.Load()
		if err != nil {
			util.Warnf("Could not load settings: %v", err)
			userSettings = &settings.Settings{}
		}

		if dataDir == "" {
			dataDir = userSettings.GetDataDir()
		}

		// Quiet by default, verbose on -v.
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		auditLogger, err := audit.NewFileLogger(filepath.Join(dataDir, "audit.log"), audit.RotationConfig{
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 10,
		})
		if err != nil {
			util.Warnf("Could not initialize audit logging: %v", err)
		} else {
			audit.SetDefaultLogger(auditLogger)
		}

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rangen", version.Info())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.rangen/data)")

	for _, cmd := range []*cobra.Command{viewCmd, analyzeCmd, historyCmd} {
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
	}

	rootCmd.AddCommand(
		modernizeCmd,
		rolloutCmd,
		viewCmd,
		analyzeCmd,
		historyCmd,
		settingsCmd,
		versionCmd,
	)
}

// readInput loads one input file, erroring with the flag name when the path
// is missing.
func readInput(path, flag string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("--%s is required", flag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading --%s: %w", flag, err)
	}
	return data, nil
}
