package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/texturec/internal/encoder"
	"github.com/AnyUserName/texturec/internal/filter"
	"github.com/AnyUserName/texturec/internal/preset"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List available filters, presets and preview encoders",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		fmt.Println()
		fmt.Println("  Filters:")
		for _, e := range filter.Default().Entries() {
			fmt.Printf("    %-12s %s\n", e.Name, e.Usage)
		}
		fmt.Println()
		fmt.Println("  Presets:")
		for _, name := range preset.Names() {
			p, _ := preset.Get(name)
			var chain []string
			for _, s := range p.Steps {
				chain = append(chain, s.Filter)
			}
			fmt.Printf("    %-12s %s\n", name, p.Description)
			fmt.Printf("    %-12s %s\n", "", strings.Join(chain, " -> "))
		}
		fmt.Println()
		fmt.Printf("  Preview %s\n", encoder.NewRegistry())
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}
