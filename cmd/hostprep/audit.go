package main

import (
	"context"

	"github.com/aretw0/hostprep/internal/cli"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check the configuration for placeholder credentials",
	Long: `Scans jarvis/config.py for placeholder API keys and checks .env when present.
With --watch the audit re-runs whenever either file changes.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		code, err := cli.ExecuteAudit(sigCtx, opts)
		sigCtx.Cancel()
		exit(code, err)
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().BoolP("watch", "w", false, "Re-run the audit when the configuration changes")
	auditCmd.Flags().BoolP("verbose", "v", false, "Show informational findings")
}
