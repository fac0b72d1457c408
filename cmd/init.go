package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tollgate/tollgate/internal/config"
	"github.com/tollgate/tollgate/internal/constants"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new tollgate policy file",
	Long: `Initialize creates a new tollgate policy file with default settings.

The policy file is written to ~/.config/tollgate/policy.toml (or the path
specified by the TOLLGATE_CONFIG environment variable).

Use --force to overwrite an existing policy file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing policy file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := config.UserConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	configPath := filepath.Join(configDir, constants.ConfigFileName)

	// Check if the policy file already exists
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("policy file already exists at %s (use --force to overwrite)", configPath)
	}

	// Create directory if needed
	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write default policy file
	if err := os.WriteFile(configPath, config.DefaultPolicy(), constants.FileMode); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}

	fmt.Printf("Policy written to: %s\n", configPath)
	fmt.Println("Run 'tollgate validate' to verify your configuration.")

	return nil
}
