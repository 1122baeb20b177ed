package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rangen-network/rangen/pkg/cli"
	"github.com/rangen-network/rangen/pkg/merge"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Recommend reference templates for an existing station",
	Long: `Analyze inspects an existing station document and recommends compatible
reference templates based on its sector count, technologies and radio-head
type.

Examples:
  rangen analyze site.xml
  rangen analyze site.xml --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := merge.LoadForViewing(data)
		if err != nil {
			return err
		}
		a := merge.Analyze(doc)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(a)
		}

		var techs []string
		for _, t := range []struct {
			name string
			has  bool
		}{{"2G", a.Has2G}, {"3G", a.Has3G}, {"4G", a.Has4G}, {"5G", a.Has5G}} {
			if t.has {
				techs = append(techs, t.name)
			}
		}

		fmt.Printf("Sectors       %d\n", a.Sectors)
		fmt.Printf("Technologies  %s\n", strings.Join(techs, ", "))
		if a.RadioHeadType != "" {
			fmt.Printf("Radio head    %s\n", a.RadioHeadType)
		}

		fmt.Println()
		fmt.Println(cli.Bold("Recommended templates"))
		for _, name := range a.RecommendedTemplates {
			fmt.Println(" ", name)
		}
		return nil
	},
}
