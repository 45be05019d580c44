package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the slotter version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("slotter version %s\n", version)
	},
}
