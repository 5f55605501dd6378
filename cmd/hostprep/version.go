package main

import (
	"fmt"

	"github.com/aretw0/hostprep"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hostprep",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hostprep version %s\n", hostprep.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
