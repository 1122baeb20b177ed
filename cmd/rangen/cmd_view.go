package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rangen-network/rangen/pkg/cli"
	"github.com/rangen-network/rangen/pkg/merge"
	"github.com/rangen-network/rangen/pkg/viewer"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Summarize a configuration document",
	Long: `View parses a configuration document and prints its station identity,
transport addressing, cell layout, hardware and neighbor relations.

Examples:
  rangen view Downtown_West_5G.xml
  rangen view Downtown_West_5G.xml --json`,
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
		summary := viewer.Summarize(doc)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		printSummary(summary)
		return nil
	},
}

func printSummary(s viewer.Summary) {
	fmt.Println(cli.Bold("Station"))
	fmt.Printf("  MRBTS         %s\n", s.Station.MRBTSID)
	fmt.Printf("  Name          %s\n", s.Station.BTSName)
	if s.Station.Version != "" {
		fmt.Printf("  Version       %s\n", s.Station.Version)
	}
	fmt.Printf("  Technologies  %s\n", strings.Join(s.Radio.Technologies, ", "))

	if len(s.Network.Addresses) > 0 {
		fmt.Println()
		fmt.Println(cli.Bold("Transport"))
		t := cli.NewTable("LABEL", "VLAN", "IP", "PREFIX").WithPrefix("  ")
		for _, a := range s.Network.Addresses {
			t.Row(a.Label, a.VLANID, a.IP, a.Prefix)
		}
		t.Flush()
	}

	if len(s.Radio.Cells) > 0 {
		fmt.Println()
		fmt.Printf("%s (%d sectors)\n", cli.Bold("Cells"), s.Radio.SectorCount)
		t := cli.NewTable("TECH", "CELL", "NAME", "CARRIER", "SECTOR").WithPrefix("  ")
		for _, tech := range s.Radio.Technologies {
			for _, c := range s.Radio.Cells[tech] {
				t.Row(tech, c.CellID, c.CellName, c.Carrier, c.Sector)
			}
		}
		t.Flush()
	}

	if len(s.Hardware.Modules) > 0 {
		fmt.Println()
		fmt.Printf("%s (%d cabinets)\n", cli.Bold("Radio Modules"), s.Hardware.CabinetCount)
		t := cli.NewTable("MODULE", "PRODUCT", "MODEL", "STATE").WithPrefix("  ")
		for _, m := range s.Hardware.Modules {
			t.Row(m.ID, m.ProductCode, m.Model, m.State)
		}
		t.Flush()
	}

	if len(s.CellRadio) > 0 {
		fmt.Println()
		fmt.Println(cli.Bold("Cell-Radio Mapping"))
		t := cli.NewTable("CELL", "TECH", "MODULE", "PORT", "MODE").WithPrefix("  ")
		for _, e := range s.CellRadio {
			t.Row(e.Cell, e.Tech, e.RadioModule, e.Port, e.Mode)
		}
		t.Flush()
	}

	if s.Neighbors.LTENeighbors+s.Neighbors.NRNeighbors+s.Neighbors.X2Links > 0 {
		fmt.Println()
		fmt.Printf("%s LTE=%d NR=%d X2=%d\n", cli.Bold("Neighbors"),
			s.Neighbors.LTENeighbors, s.Neighbors.NRNeighbors, s.Neighbors.X2Links)
	}
}
