package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hintscan/hintscan/internal/engine"
)

//go:embed templates/hintscanrc.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".hintscanrc"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new hintscan configuration file",
		Long: `Initialize creates a new .hintscanrc configuration file in the current
directory.

The generated file includes:
- The recommended preset and connector for web targets
- Commented examples for per-hint severities and options
- Documentation for the discovery and precedence rules

Examples:
  # Create .hintscanrc in current directory
  hintscan init

  # Create config file at a specific path
  hintscan init -o config/hintscanrc.yaml

  # Force overwrite existing file
  hintscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/hintscanrc.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Presets to extend and per-hint severities")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The connector and formatters")
	fmt.Fprintln(cmd.OutOrStdout(), "  - The per-target timeout")
	fmt.Fprintf(cmd.OutOrStdout(), "\nAvailable presets: %s\n", strings.Join(engine.KnownPresets(), ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "Available hints:   %s\n", strings.Join(engine.KnownHintIDs(), ", "))

	return nil
}
