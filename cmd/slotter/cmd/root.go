// Package cmd provides the CLI commands for slotter.
package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "slotter",
	Short: "Solve section-assignment problems over scored candidate items",
	Long: `slotter assembles constraint solutions: it takes a pool of scored
candidate items and partitions a chosen subset into ordered sections so that
per-section attribute and count constraints, cross-section assignment
constraints, and item-ordering constraints all hold while the total score of
the selected items is maximized.

Examples:
  slotter solve scenario.yaml
  slotter solve --format json scenario.yaml
  slotter solve --format svg --output plan.svg scenario.yaml`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(versionCmd)
}
