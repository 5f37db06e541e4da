package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via -ldflags
	Version = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tabstat version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tabstat %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
