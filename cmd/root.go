// Package cmd implements the CLI commands for tollgate.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tollgate/tollgate/internal/constants"
	"github.com/tollgate/tollgate/internal/logger"
	"github.com/tollgate/tollgate/internal/metrics"
)

var (
	// Global flags
	verbose     bool
	dryRun      bool
	noMetrics   bool
	projectRoot string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tollgate",
	Short: "Policy gate for autonomous-agent tool invocations",
	Long: `Tollgate is a PreToolUse hook that gates agent tool invocations (shell
commands, file writes, multi-agent team and messaging operations) behind a
policy layer, rendering an allow, ask, or block verdict for each call.

When called without arguments, it reads a JSON invocation context from
stdin and reports the decision via the exit status: 0 for allow (and for
ask, which also prints a confirmation prompt as JSON on stdout), 2 for
block with the reason on stderr. Internal failures always degrade to
allow; a broken policy engine must never halt all agent activity.

Usage in ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "Bash|Write|TeamCreate|TeamDelete|SendMessage|TaskCreate|TaskUpdate",
      "hooks": [{"type": "command", "command": "tollgate"}]
    }]
  }`,
	// Run the hook by default when no subcommand is given
	Run: runHook,
	// Silence usage on errors
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the verdict to stderr without the exit/output contract")
	rootCmd.PersistentFlags().BoolVar(&noMetrics, "no-metrics", false, "Disable decision metrics recording")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "project-root", "", "Project root for path resolution and project-local policy")
}

// initApp initializes the application (logger, metrics, project root)
func initApp() {
	if projectRoot == "" {
		projectRoot = os.Getenv(constants.EnvProjectRoot)
	}

	logger.Init(logger.Options{Verbose: verbose})

	metrics.Init("", noMetrics)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled
func IsDryRun() bool {
	return dryRun
}
