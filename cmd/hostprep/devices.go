package main

import (
	"context"

	"github.com/aretw0/hostprep/internal/cli"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio capture devices",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		opts.Native, _ = cmd.Flags().GetBool("native")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		code, err := cli.ExecuteDevices(sigCtx, opts)
		sigCtx.Cancel()
		exit(code, err)
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.Flags().Bool("native", false, "Ask PortAudio directly instead of running arecord")
}
