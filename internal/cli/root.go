package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/conjure-cli/conjure/internal/config"
)

const version = "0.1.0"

// Deterministic exit codes for scripting and CI gating.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "conjure",
	Short: "Synthesize function implementations and constants with LLM providers",
	Long:  "Conjure generates implementations for declared functions and constants using LLM providers, caching generated source on disk keyed by signature.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(constCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// applyLogLevel configures the global logger from the effective config.
// Unknown levels fall back to info.
func applyLogLevel(cfg config.Config) {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print conjure version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "conjure version %s\n", version)
	},
}
