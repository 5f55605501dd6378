package main

import (
	"context"

	"github.com/aretw0/hostprep/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every provisioning step",
	Long: `Runs the platform check, interpreter check, system packages, environment setup,
dependency installation, configuration audit and device listing, in that order.

Exit codes: 0 success (advisories allowed), 1 missing interpreter, 2 a step failed or the run was interrupted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		opts.MetricsFile, _ = cmd.Flags().GetString("metrics-file")
		opts.NoBanner, _ = cmd.Flags().GetBool("no-banner")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")
		opts.Native, _ = cmd.Flags().GetBool("native")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		code, err := cli.Execute(sigCtx, opts)
		sigCtx.Cancel()
		exit(code, err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file (node_exporter textfile format)")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	runCmd.Flags().BoolP("verbose", "v", false, "Show informational findings")
	runCmd.Flags().Bool("native", false, "List devices through PortAudio (requires a portaudio build)")

	// 'run' is the default when no command is provided
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.Run = runCmd.Run
}
