package main

import (
	"fmt"
	"os"

	"github.com/aretw0/hostprep/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hostprep",
	Short: "Provision a host for the JARVIS voice assistant",
	Long: `hostprep checks host prerequisites, installs OS packages, rebuilds the Python
environment, installs dependencies, audits credentials and lists microphones.

Running hostprep without a subcommand runs the whole plan.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Working directory holding requirements.txt and jarvis/")
	flags.String("plan", "", "Plan file (YAML or JSON); defaults to <dir>/hostprep.yaml or the built-in plan")
	flags.StringArray("set", nil, "Override a plan value, e.g. --set environment.system_site_packages=false")
	flags.Bool("debug", false, "Enable debug logging to stderr")
	flags.String("log-format", "text", "Debug log format: text or json")
	flags.String("reports-dir", "", "Report directory (default <dir>/.hostprep/reports)")
	flags.String("redis-url", "", "Store reports in Redis and hold a per-host lock for the run (redis://host:6379/0)")
	flags.Bool("json", false, "Print machine-readable JSON to stdout")
}

// options reads the persistent flags shared by every command.
func options(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	dir, _ := flags.GetString("dir")
	planPath, _ := flags.GetString("plan")
	sets, _ := flags.GetStringArray("set")
	debug, _ := flags.GetBool("debug")
	logFormat, _ := flags.GetString("log-format")
	reportsDir, _ := flags.GetString("reports-dir")
	redisURL, _ := flags.GetString("redis-url")
	jsonMode, _ := flags.GetBool("json")

	if env := os.Getenv("HOSTPREP_REDIS_URL"); redisURL == "" && env != "" {
		redisURL = env
	}

	return cli.Options{
		Dir:        dir,
		PlanPath:   planPath,
		Sets:       sets,
		Debug:      debug,
		LogFormat:  logFormat,
		ReportsDir: reportsDir,
		RedisURL:   redisURL,
		JSON:       jsonMode,
	}
}

// exit terminates with code, printing err first when present.
func exit(code int, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}
