// Package main provides the entry point for the hintscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for hintscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hintscan",
		Short: "Analyze web pages and files for best-practice issues",
		Long: `hintscan analyzes web pages and local files against a configurable
set of hints, reporting accessibility, security, and best-practice issues.

Configuration is discovered from .hintscanrc in the current or home
directory; without one a sensible default is computed from the targets.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
