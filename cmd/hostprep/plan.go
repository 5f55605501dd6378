package main

import (
	"github.com/aretw0/hostprep/internal/cli"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the effective plan",
	Long:  `Prints the plan after applying the plan file and --set overrides to the built-in defaults.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintPlan(options(cmd))
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
