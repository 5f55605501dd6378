package main

import (
	"github.com/aretw0/hostprep/internal/cli"
	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports [id|latest]",
	Short: "List stored reports or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options(cmd)
		if len(args) == 0 {
			return cli.ListReports(cmd.Context(), opts)
		}
		return cli.ShowReport(cmd.Context(), opts, args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}
